package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/anseval/anseval/internal/ingest"
	"github.com/anseval/anseval/internal/rbac"
	"github.com/anseval/anseval/internal/storage"
)

// POST /api/upload
// multipart form: file, student_id, user_name, exam_code, answer_type
func UploadSheetHandler(svc *ingest.Service, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		p := ingest.Params{
			StudentID:  strings.TrimSpace(r.FormValue("student_id")),
			UserName:   strings.TrimSpace(r.FormValue("user_name")),
			ExamCode:   strings.TrimSpace(r.FormValue("exam_code")),
			AnswerType: strings.TrimSpace(r.FormValue("answer_type")),
		}
		if p.StudentID == "" || p.ExamCode == "" {
			http.Error(w, "student_id and exam_code required", http.StatusBadRequest)
			return
		}
		if p.UserName == "" {
			p.UserName = rbac.SubjectFromContext(r.Context())
		}

		// Keep the raw upload around, then feed the same bytes to OCR.
		buf, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		key := fmt.Sprintf("sheets/%d-%s", time.Now().UnixNano(), filepath.Base(hdr.Filename))
		if _, err := bs.Put(key, bytes.NewReader(buf)); err != nil {
			http.Error(w, "store upload: "+err.Error(), http.StatusInternalServerError)
			return
		}
		p.FilePath = key

		a, err := svc.IngestFile(r.Context(), bytes.NewReader(buf), p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":      "file uploaded and processed",
			"answer_sheet": a,
		})
	}
}
