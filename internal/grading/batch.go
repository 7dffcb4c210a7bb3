package grading

import (
	"context"

	"github.com/anseval/anseval/internal/sheet"
)

// SheetOutcome reports one successfully graded sheet in a batch run.
type SheetOutcome struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	TotalMarks int    `json:"total_marks"`
}

// BatchResult summarizes a re-grading pass over an exam's pending sheets.
type BatchResult struct {
	Count  int            `json:"count"`
	Sheets []SheetOutcome `json:"sheets"`
}

// RegradeExam loads the answer key for examCode and grades every pending
// objective sheet with that code. Returns sheet.ErrKeyNotFound when no key has
// been uploaded.
func (g *Grader) RegradeExam(ctx context.Context, examCode string) (BatchResult, error) {
	key, err := g.store.GetKey(ctx, examCode)
	if err != nil {
		return BatchResult{}, err
	}
	return g.RegradeWithKey(ctx, key)
}

// RegradeWithKey is the answer-key-upload path: the caller already holds the
// fresh key. Sheets that fail to grade are skipped, never aborting the batch,
// and are left out of the result. Already-Evaluated sheets are not picked up.
func (g *Grader) RegradeWithKey(ctx context.Context, key sheet.AnswerKey) (BatchResult, error) {
	pending, err := g.store.ListSheets(ctx, sheet.ListOpts{
		ExamCode:   key.ExamCode,
		AnswerType: sheet.TypeObjective,
		Status:     sheet.StatusPending,
	})
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Sheets: []SheetOutcome{}}
	for i := range pending {
		a := pending[i]
		if !g.Grade(ctx, &a, key) {
			continue
		}
		res.Count++
		res.Sheets = append(res.Sheets, SheetOutcome{
			ID:         a.ID,
			StudentID:  a.StudentID,
			TotalMarks: a.TotalMarks,
		})
	}
	return res, nil
}
