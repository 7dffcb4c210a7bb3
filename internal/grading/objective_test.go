package grading

import (
	"context"
	"reflect"
	"testing"

	"github.com/anseval/anseval/internal/sheet"
)

func seedSheet(t *testing.T, store sheet.Store, a sheet.AnswerSheet) sheet.AnswerSheet {
	t.Helper()
	created, err := store.CreateSheet(context.Background(), a)
	if err != nil {
		t.Fatalf("seed sheet: %v", err)
	}
	return created
}

func TestGradeScoresAgainstKey(t *testing.T) {
	store := sheet.NewInMemoryStore()
	g := New(store)

	a := seedSheet(t, store, sheet.AnswerSheet{
		ID:         "s1",
		StudentID:  "stu-1",
		ExamCode:   "EX-1",
		AnswerType: sheet.TypeObjective,
		StructuredAnswers: []sheet.StructuredAnswer{
			{QuestionNumber: "1", Answer: "A"},
			{QuestionNumber: "2", Answer: "b"},
			{QuestionNumber: "3", Answer: "D"},
		},
	})
	key := sheet.AnswerKey{
		ExamCode: "EX-1",
		Answers:  map[string]string{"1": "A", "2": "B", "3": "C"},
	}

	if !g.Grade(context.Background(), &a, key) {
		t.Fatal("Grade returned false")
	}

	wantMarks := map[string]int{"1": 1, "2": 1, "3": 0}
	if !reflect.DeepEqual(a.Marks, wantMarks) {
		t.Fatalf("marks = %v, want %v", a.Marks, wantMarks)
	}
	if a.TotalMarks != 2 {
		t.Fatalf("total = %d, want 2", a.TotalMarks)
	}
	if a.Status != sheet.StatusEvaluated || a.EvaluationMethod != sheet.MethodAuto {
		t.Fatalf("status/method = %s/%s", a.Status, a.EvaluationMethod)
	}
	if a.EvaluatedBy != sheet.EvaluatedBySystem {
		t.Fatalf("evaluated_by = %q", a.EvaluatedBy)
	}
	if a.EvaluatedAt == 0 {
		t.Fatal("evaluated_at not set")
	}

	// Persisted, not just mutated in memory.
	got, err := store.GetSheet(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSheet: %v", err)
	}
	if got.TotalMarks != 2 || got.Status != sheet.StatusEvaluated {
		t.Fatalf("persisted sheet = %+v", got)
	}
}

func TestGradeMatchingRules(t *testing.T) {
	cases := []struct {
		student, correct string
		want             bool
	}{
		{"  b  ", "B", true},
		{"B", "b", true},
		{"paris", "Paris", true},
		{"b.", "B", false},
		{"", "B", false},
		{"B", "", false},
		{"  ", "", true},
	}
	for _, c := range cases {
		if got := answersMatch(c.student, c.correct); got != c.want {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", c.student, c.correct, got, c.want)
		}
	}
}

func TestGradeSkipsQuestionsMissingFromKey(t *testing.T) {
	store := sheet.NewInMemoryStore()
	g := New(store)

	a := seedSheet(t, store, sheet.AnswerSheet{
		ID:       "s2",
		ExamCode: "EX-1",
		StructuredAnswers: []sheet.StructuredAnswer{
			{QuestionNumber: "1", Answer: "A"},
			{QuestionNumber: "7", Answer: "whatever"},
		},
	})
	key := sheet.AnswerKey{ExamCode: "EX-1", Answers: map[string]string{"1": "A"}}

	g.Grade(context.Background(), &a, key)

	if _, ok := a.Marks["7"]; ok {
		t.Fatalf("question 7 should be unscored, marks = %v", a.Marks)
	}
	if a.TotalMarks != 1 {
		t.Fatalf("total = %d, want 1", a.TotalMarks)
	}
}

// Grading the same sheet twice with the same key yields the same marks.
func TestGradeDeterministic(t *testing.T) {
	store := sheet.NewInMemoryStore()
	g := New(store)

	answers := []sheet.StructuredAnswer{
		{QuestionNumber: "1", Answer: "x"},
		{QuestionNumber: "2", Answer: "Y"},
	}
	key := sheet.AnswerKey{ExamCode: "EX-1", Answers: map[string]string{"1": "X", "2": "z"}}

	a := seedSheet(t, store, sheet.AnswerSheet{ID: "s3", ExamCode: "EX-1", StructuredAnswers: answers})
	b := seedSheet(t, store, sheet.AnswerSheet{ID: "s4", ExamCode: "EX-1", StructuredAnswers: answers})

	g.Grade(context.Background(), &a, key)
	g.Grade(context.Background(), &b, key)

	if !reflect.DeepEqual(a.Marks, b.Marks) || a.TotalMarks != b.TotalMarks {
		t.Fatalf("grading not deterministic: %v/%d vs %v/%d", a.Marks, a.TotalMarks, b.Marks, b.TotalMarks)
	}
}

func TestRegradeExamOnlyPendingObjective(t *testing.T) {
	store := sheet.NewInMemoryStore()
	g := New(store)
	ctx := context.Background()

	pending := seedSheet(t, store, sheet.AnswerSheet{
		ID: "p1", StudentID: "stu-1", ExamCode: "EX-1", AnswerType: sheet.TypeObjective,
		StructuredAnswers: []sheet.StructuredAnswer{{QuestionNumber: "1", Answer: "A"}},
	})
	// Already evaluated: must not be touched again.
	seedSheet(t, store, sheet.AnswerSheet{
		ID: "done", StudentID: "stu-2", ExamCode: "EX-1", AnswerType: sheet.TypeObjective,
		Status: sheet.StatusEvaluated, TotalMarks: 99,
		StructuredAnswers: []sheet.StructuredAnswer{{QuestionNumber: "1", Answer: "A"}},
	})
	// Descriptive sheets never auto-grade.
	seedSheet(t, store, sheet.AnswerSheet{
		ID: "essay", StudentID: "stu-3", ExamCode: "EX-1", AnswerType: sheet.TypeDescriptive,
		StructuredAnswers: []sheet.StructuredAnswer{{QuestionNumber: "1", Answer: "A"}},
	})
	// Other exam.
	seedSheet(t, store, sheet.AnswerSheet{
		ID: "other", StudentID: "stu-4", ExamCode: "EX-2", AnswerType: sheet.TypeObjective,
		StructuredAnswers: []sheet.StructuredAnswer{{QuestionNumber: "1", Answer: "A"}},
	})

	if _, err := store.UpsertKey(ctx, sheet.AnswerKey{
		ExamCode: "EX-1", Answers: map[string]string{"1": "A"},
	}); err != nil {
		t.Fatalf("UpsertKey: %v", err)
	}

	res, err := g.RegradeExam(ctx, "EX-1")
	if err != nil {
		t.Fatalf("RegradeExam: %v", err)
	}
	if res.Count != 1 || len(res.Sheets) != 1 {
		t.Fatalf("result = %+v, want exactly the one pending objective sheet", res)
	}
	if res.Sheets[0].ID != pending.ID || res.Sheets[0].TotalMarks != 1 {
		t.Fatalf("outcome = %+v", res.Sheets[0])
	}

	done, _ := store.GetSheet(ctx, "done")
	if done.TotalMarks != 99 {
		t.Fatalf("evaluated sheet was re-graded: %+v", done)
	}
	essay, _ := store.GetSheet(ctx, "essay")
	if essay.Status != sheet.StatusPending {
		t.Fatalf("descriptive sheet was graded: %+v", essay)
	}
}

func TestRegradeExamKeyMissing(t *testing.T) {
	g := New(sheet.NewInMemoryStore())
	_, err := g.RegradeExam(context.Background(), "NO-SUCH-EXAM")
	if err != sheet.ErrKeyNotFound {
		t.Fatalf("err = %v, want ErrKeyNotFound", err)
	}
}

func TestRegradeWithKeyEmptyBatch(t *testing.T) {
	g := New(sheet.NewInMemoryStore())
	res, err := g.RegradeWithKey(context.Background(), sheet.AnswerKey{ExamCode: "EX-9"})
	if err != nil {
		t.Fatalf("RegradeWithKey: %v", err)
	}
	if res.Count != 0 || res.Sheets == nil || len(res.Sheets) != 0 {
		t.Fatalf("result = %+v, want empty non-nil sheets", res)
	}
}
