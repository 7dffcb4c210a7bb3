package sheet

import (
	"context"
	"errors"
)

// Sentinel errors shared by store implementations.
var (
	ErrSheetNotFound = errors.New("answer sheet not found")
	ErrKeyNotFound   = errors.New("answer key not found")
)

// ListOpts filters sheet listings. Zero-value fields are ignored.
type ListOpts struct {
	StudentID  string
	ExamCode   string
	AnswerType string // objective | descriptive
	Status     string // Pending | Evaluated
}

// Store is the persistence boundary for answer sheets and answer keys.
type Store interface {
	CreateSheet(ctx context.Context, a AnswerSheet) (AnswerSheet, error)
	GetSheet(ctx context.Context, id string) (AnswerSheet, error)
	ListSheets(ctx context.Context, opts ListOpts) ([]AnswerSheet, error)

	// SaveProgress merges the supplied marks into the sheet. It never touches
	// status, total_marks, or the evaluation stamp; concurrent savers are
	// last-writer-wins.
	SaveProgress(ctx context.Context, id string, marks map[string]int) (AnswerSheet, error)

	// SubmitEvaluation replaces the sheet's marks wholesale, recomputes
	// total_marks as their sum, and stamps the sheet Evaluated/manual.
	SubmitEvaluation(ctx context.Context, id string, marks map[string]int, gradedBy string) (AnswerSheet, error)

	// UpdateSheet writes back a sheet mutated by the objective grader.
	UpdateSheet(ctx context.Context, a AnswerSheet) error

	// UpsertKey creates or replaces the answer key for a.ExamCode, preserving
	// CreatedAt on replace and bumping UpdatedAt.
	UpsertKey(ctx context.Context, k AnswerKey) (AnswerKey, error)
	GetKey(ctx context.Context, examCode string) (AnswerKey, error)
}
