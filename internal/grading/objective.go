package grading

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/anseval/anseval/internal/sheet"
)

// Grader scores objective answer sheets against an exam's answer key and
// persists the outcome.
type Grader struct {
	store sheet.Store
}

func New(store sheet.Store) *Grader {
	return &Grader{store: store}
}

// Grade compares every structured answer on the sheet against the key and
// writes the result back. One point per exact match (trimmed,
// case-insensitive); zero otherwise. Questions missing from the key are
// skipped without failing. TotalMarks is the raw point count for questions the
// key covers, not a percentage.
//
// Any failure is logged and reported as false so a batch caller can move on to
// its remaining sheets.
func (g *Grader) Grade(ctx context.Context, a *sheet.AnswerSheet, key sheet.AnswerKey) bool {
	if a.Marks == nil {
		a.Marks = map[string]int{}
	}

	total := 0
	for _, sa := range a.StructuredAnswers {
		correct, ok := key.Answers[sa.QuestionNumber]
		if !ok {
			continue
		}
		score := 0
		if answersMatch(sa.Answer, correct) {
			score = 1
		}
		a.Marks[sa.QuestionNumber] = score
		total += score
	}

	a.TotalMarks = total
	a.Status = sheet.StatusEvaluated
	a.EvaluationMethod = sheet.MethodAuto
	a.EvaluatedAt = time.Now().Unix()
	a.EvaluatedBy = sheet.EvaluatedBySystem

	if err := g.store.UpdateSheet(ctx, *a); err != nil {
		log.Printf("grading: persist sheet %s: %v", a.ID, err)
		return false
	}
	return true
}

// answersMatch applies the exact-after-trim-and-lowercase rule. No punctuation
// normalization: "b." does not match "B".
func answersMatch(student, correct string) bool {
	return strings.ToLower(strings.TrimSpace(student)) == strings.ToLower(strings.TrimSpace(correct))
}
