package ingest

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/anseval/anseval/internal/ocr"
	"github.com/anseval/anseval/internal/sheet"
	"github.com/anseval/anseval/internal/summarize"
)

// Params identifies the student and exam an uploaded sheet belongs to.
type Params struct {
	StudentID  string
	UserName   string
	ExamCode   string
	AnswerType string // objective | descriptive; defaults to descriptive
	FilePath   string // where the raw upload was stored, recorded on the sheet
}

// Service drives the ingestion pipeline: extract text, segment it into
// question/answer pairs, summarize each answer best-effort, persist the sheet.
type Service struct {
	store      sheet.Store
	extractor  ocr.Extractor
	summarizer summarize.Summarizer
}

func NewService(store sheet.Store, extractor ocr.Extractor, summarizer summarize.Summarizer) *Service {
	return &Service{store: store, extractor: extractor, summarizer: summarizer}
}

// IngestFile extracts text from the uploaded file and ingests it. Extraction
// failure degrades to empty text rather than failing the upload; whatever the
// OCR produced is preserved.
func (s *Service) IngestFile(ctx context.Context, r io.Reader, p Params) (sheet.AnswerSheet, error) {
	raw := ""
	if s.extractor != nil {
		text, err := s.extractor.Extract(ctx, r)
		if err != nil {
			log.Printf("ingest: text extraction for student %s: %v", p.StudentID, err)
		} else {
			raw = text
		}
	}
	return s.Ingest(ctx, raw, p)
}

// Ingest structures already-extracted text and persists the resulting sheet.
// The sheet always starts Pending with zero marks.
func (s *Service) Ingest(ctx context.Context, rawText string, p Params) (sheet.AnswerSheet, error) {
	if err := validate(p); err != nil {
		return sheet.AnswerSheet{}, err
	}
	answerType := p.AnswerType
	if answerType == "" {
		answerType = sheet.TypeDescriptive
	}

	structured := sheet.Segment(rawText)
	summarized := s.summarizeAll(ctx, structured)

	a := sheet.AnswerSheet{
		ID:                uuid.NewString(),
		StudentID:         p.StudentID,
		UserName:          p.UserName,
		ExamCode:          p.ExamCode,
		AnswerType:        answerType,
		FilePath:          p.FilePath,
		StructuredAnswers: structured,
		SummarizedAnswers: summarized,
		Marks:             map[string]int{},
		TotalMarks:        0,
		Status:            sheet.StatusPending,
	}
	return s.store.CreateSheet(ctx, a)
}

// summarizeAll produces one summary per structured answer, in order. Calls run
// sequentially; a failed or empty summary becomes a fallback string and never
// aborts the rest of the batch.
func (s *Service) summarizeAll(ctx context.Context, answers []sheet.StructuredAnswer) []sheet.SummarizedAnswer {
	out := make([]sheet.SummarizedAnswer, 0, len(answers))
	for _, ans := range answers {
		summary := summarize.FallbackUnavailable
		if s.summarizer != nil {
			got, err := s.summarizer.Summarize(ctx, ans.Answer)
			switch {
			case err != nil:
				log.Printf("ingest: summarize question %s: %v", ans.QuestionNumber, err)
				summary = summarize.FallbackError
			case strings.TrimSpace(got) != "":
				summary = got
			}
		}
		out = append(out, sheet.SummarizedAnswer{
			QuestionNumber: ans.QuestionNumber,
			Summary:        summary,
		})
	}
	return out
}

func validate(p Params) error {
	if strings.TrimSpace(p.StudentID) == "" {
		return errors.New("student_id required")
	}
	if strings.TrimSpace(p.ExamCode) == "" {
		return errors.New("exam_code required")
	}
	return nil
}
