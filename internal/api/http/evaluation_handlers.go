package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anseval/anseval/internal/rbac"
	"github.com/anseval/anseval/internal/sheet"
)

// GET /api/evaluations
func ListSheetsHandler(store sheet.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListSheets(r.Context(), sheet.ListOpts{
			ExamCode: strings.TrimSpace(r.URL.Query().Get("exam_code")),
			Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// GET /api/evaluations/{sheetID}
func GetSheetHandler(store sheet.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sheetID")
		a, err := store.GetSheet(r.Context(), id)
		if err != nil {
			if errors.Is(err, sheet.ErrSheetNotFound) {
				http.Error(w, "answer sheet not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a)
	}
}

type marksReq struct {
	Marks map[string]int `json:"marks"`
}

// POST /api/evaluations/{sheetID}/evaluate
// Teacher submit: replaces marks wholesale, recomputes the total, stamps the
// sheet Evaluated/manual. Completeness is the grading UI's concern; the server
// accepts whatever mapping the teacher submits.
func SubmitEvaluationHandler(store sheet.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sheetID")
		var req marksReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Marks == nil {
			http.Error(w, "marks required", http.StatusBadRequest)
			return
		}
		a, err := store.SubmitEvaluation(r.Context(), id, req.Marks, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			if errors.Is(err, sheet.ErrSheetNotFound) {
				http.Error(w, "answer sheet not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a)
	}
}

// POST /api/evaluations/{sheetID}/save-progress
// Merges partial marks without touching status or totals.
func SaveProgressHandler(store sheet.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sheetID")
		var req marksReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := store.SaveProgress(r.Context(), id, req.Marks)
		if err != nil {
			if errors.Is(err, sheet.ErrSheetNotFound) {
				http.Error(w, "answer sheet not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a)
	}
}
