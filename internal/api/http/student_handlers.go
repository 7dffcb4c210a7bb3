package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anseval/anseval/internal/rbac"
	"github.com/anseval/anseval/internal/sheet"
)

// GET /api/students/{studentID}/answer-sheets
// All of a student's sheets, graded and pending. Students only see their own.
func ListStudentSheetsHandler(store sheet.Store) http.HandlerFunc {
	return studentSheets(store, "")
}

// GET /api/students/{studentID}/graded
func ListStudentGradedHandler(store sheet.Store) http.HandlerFunc {
	return studentSheets(store, sheet.StatusEvaluated)
}

func studentSheets(store sheet.Store, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := chi.URLParam(r, "studentID")
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())
		if role == "student" && sub != studentID {
			http.Error(w, "access denied: you can only view your own answer sheets", http.StatusForbidden)
			return
		}
		list, err := store.ListSheets(r.Context(), sheet.ListOpts{
			StudentID: studentID,
			Status:    status,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}
