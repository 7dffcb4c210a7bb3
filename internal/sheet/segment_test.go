package sheet

import (
	"reflect"
	"strings"
	"testing"
)

func TestSegmentNumberedAnswers(t *testing.T) {
	raw := "Name: Alice\n1. Paris\n2) The answer is\nspread over two lines\n3. C"
	got := Segment(raw)

	want := []StructuredAnswer{
		{QuestionNumber: "1", Answer: "Paris"},
		{QuestionNumber: "2", Answer: "The answer is spread over two lines"},
		{QuestionNumber: "3", Answer: "C"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Segment() = %+v, want %+v", got, want)
	}
}

func TestSegmentPreambleDiscarded(t *testing.T) {
	raw := "noise before\nany numbering\n5. real answer"
	got := Segment(raw)
	if len(got) != 1 || got[0].QuestionNumber != "5" || got[0].Answer != "real answer" {
		t.Fatalf("Segment() = %+v", got)
	}
}

func TestSegmentNoNumbering(t *testing.T) {
	raw := "an essay with no numbering\nat all, across lines"
	got := Segment(raw)
	if len(got) != 1 {
		t.Fatalf("expected single entry, got %d", len(got))
	}
	if got[0].QuestionNumber != NoNumberSentinel {
		t.Fatalf("question number = %q, want %q", got[0].QuestionNumber, NoNumberSentinel)
	}
	if got[0].Answer != raw {
		t.Fatalf("answer = %q, want full raw text", got[0].Answer)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	got := Segment("")
	if len(got) != 1 || got[0].QuestionNumber != NoNumberSentinel || got[0].Answer != "" {
		t.Fatalf("Segment(\"\") = %+v", got)
	}
}

func TestSegmentDuplicateNumbersKept(t *testing.T) {
	got := Segment("1. first\n1. second")
	if len(got) != 2 {
		t.Fatalf("expected both duplicate entries, got %+v", got)
	}
	if got[0].Answer != "first" || got[1].Answer != "second" {
		t.Fatalf("got %+v", got)
	}
}

// No answer content from matched lines is lost: every captured fragment shows
// up in some answer.
func TestSegmentNoContentLost(t *testing.T) {
	raw := "1. alpha\nbeta\n2. gamma\n3) delta\nepsilon"
	got := Segment(raw)

	var all strings.Builder
	for _, sa := range got {
		all.WriteString(sa.Answer)
		all.WriteString(" ")
	}
	joined := all.String()
	for _, frag := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		if !strings.Contains(joined, frag) {
			t.Fatalf("fragment %q lost; answers: %q", frag, joined)
		}
	}
}

func TestExtractKey(t *testing.T) {
	raw := "Answer key for EX-1\n1. A\n2. B\nnot a key line\n3. C"
	got := ExtractKey(raw)
	want := map[string]string{"1": "A", "2": "B", "3": "C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractKey() = %v, want %v", got, want)
	}
}

func TestExtractKeyLastOccurrenceWins(t *testing.T) {
	got := ExtractKey("1. A\n1. B")
	if got["1"] != "B" {
		t.Fatalf("duplicate key = %q, want last occurrence", got["1"])
	}
}

func TestExtractKeyIdempotent(t *testing.T) {
	raw := "1. A\n2. B\n3. C"
	first := ExtractKey(raw)
	second := ExtractKey(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ExtractKey not idempotent: %v vs %v", first, second)
	}
}

func TestExtractKeyParenFormNotAccepted(t *testing.T) {
	// Keys are the strict "1. A" form; "1) A" is sheet formatting.
	got := ExtractKey("1) A")
	if len(got) != 0 {
		t.Fatalf("ExtractKey accepted paren form: %v", got)
	}
}
