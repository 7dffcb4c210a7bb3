package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anseval/anseval/internal/grading"
	"github.com/anseval/anseval/internal/ocr"
	"github.com/anseval/anseval/internal/rbac"
	"github.com/anseval/anseval/internal/sheet"
	"github.com/anseval/anseval/internal/storage"
)

// POST /api/answer-key/upload
// multipart form: file, exam_name, exam_code, answer_type (must be "objective").
// Upserts the key for the exam code and immediately re-grades every pending
// objective sheet carrying that code.
func UploadAnswerKeyHandler(store sheet.Store, grader *grading.Grader, extractor ocr.Extractor, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examName := strings.TrimSpace(r.FormValue("exam_name"))
		examCode := strings.TrimSpace(r.FormValue("exam_code"))
		answerType := strings.TrimSpace(r.FormValue("answer_type"))

		if answerType != sheet.TypeObjective {
			http.Error(w, "only objective answer keys are allowed", http.StatusBadRequest)
			return
		}
		if examCode == "" || examName == "" {
			http.Error(w, "exam_code and exam_name required", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key := fmt.Sprintf("keys/%d-%s", time.Now().UnixNano(), filepath.Base(hdr.Filename))
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store upload: "+err.Error(), http.StatusInternalServerError)
			return
		}
		stored, err := bs.Get(key)
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer stored.Close()

		raw, err := extractor.Extract(r.Context(), stored)
		if err != nil {
			http.Error(w, "text extraction: "+err.Error(), http.StatusBadGateway)
			return
		}

		k, err := store.UpsertKey(r.Context(), sheet.AnswerKey{
			ExamCode:   examCode,
			ExamName:   examName,
			AnswerType: answerType,
			Answers:    sheet.ExtractKey(raw),
			CreatedBy:  rbac.SubjectFromContext(r.Context()),
		})
		if err != nil {
			http.Error(w, "save key: "+err.Error(), http.StatusInternalServerError)
			return
		}

		res, err := grader.RegradeWithKey(r.Context(), k)
		if err != nil {
			http.Error(w, "auto-evaluate: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":        "answer key uploaded",
			"exam_code":      k.ExamCode,
			"answer_key":     k.Answers,
			"auto_evaluated": res,
		})
	}
}

// GET /api/answer-key/pending/{examCode}
func ListPendingSheetsHandler(store sheet.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examCode := strings.TrimSpace(chi.URLParam(r, "examCode"))
		if examCode == "" {
			http.Error(w, "exam_code required", http.StatusBadRequest)
			return
		}
		pending, err := store.ListSheets(r.Context(), sheet.ListOpts{
			ExamCode:   examCode,
			AnswerType: sheet.TypeObjective,
			Status:     sheet.StatusPending,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		summaries := make([]sheet.SheetSummary, 0, len(pending))
		for _, a := range pending {
			summaries = append(summaries, sheet.SheetSummary{
				ID:        a.ID,
				StudentID: a.StudentID,
				FilePath:  a.FilePath,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":  len(summaries),
			"sheets": summaries,
		})
	}
}

// POST /api/answer-key/evaluate/{examCode}
// Standalone re-grade trigger, independent of key upload.
func RegradeExamHandler(grader *grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examCode := strings.TrimSpace(chi.URLParam(r, "examCode"))
		if examCode == "" {
			http.Error(w, "exam_code required", http.StatusBadRequest)
			return
		}
		res, err := grader.RegradeExam(r.Context(), examCode)
		if err != nil {
			if errors.Is(err, sheet.ErrKeyNotFound) {
				http.Error(w, "answer key not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":   fmt.Sprintf("evaluated %d pending answer sheets", res.Count),
			"exam_code": examCode,
			"evaluated": res,
		})
	}
}
