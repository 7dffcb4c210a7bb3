package sheet

import "testing"

func TestComplete(t *testing.T) {
	a := AnswerSheet{
		StructuredAnswers: []StructuredAnswer{
			{QuestionNumber: "1", Answer: "A"},
			{QuestionNumber: "2", Answer: "B"},
		},
		Marks: map[string]int{"1": 1},
	}
	if a.Complete() {
		t.Fatal("sheet with an unmarked question reported complete")
	}
	a.Marks["2"] = 0
	if !a.Complete() {
		t.Fatal("fully marked sheet reported incomplete")
	}
}

func TestCompleteDuplicateNumbers(t *testing.T) {
	a := AnswerSheet{
		StructuredAnswers: []StructuredAnswer{
			{QuestionNumber: "1", Answer: "first"},
			{QuestionNumber: "1", Answer: "second"},
		},
		Marks: map[string]int{"1": 1},
	}
	if !a.Complete() {
		t.Fatal("shared question number marked once should be complete")
	}
}

func TestCompleteEmptySheet(t *testing.T) {
	a := AnswerSheet{}
	if !a.Complete() {
		t.Fatal("sheet with no answers is trivially complete")
	}
}
