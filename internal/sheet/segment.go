package sheet

import (
	"regexp"
	"strings"
)

// NoNumberSentinel is the question number assigned when extracted text carries
// no recognizable numbering. The whole text becomes one answer so nothing the
// OCR produced is dropped.
const NoNumberSentinel = "N/A"

// answerLineRE matches a line opening a new answer: a decimal numeral followed
// by "." or ")" and optional whitespace ("12. foo", "3) bar").
var answerLineRE = regexp.MustCompile(`^(\d+)[.)]\s*(.*)`)

// keyLineRE is the stricter single-line form used for answer keys: "1. B".
var keyLineRE = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)

// Segment splits raw OCR text into ordered question/answer pairs. Lines that
// open a numbered answer start a new pair; unnumbered lines continue the open
// answer; leading noise before the first numbered line is discarded. Duplicate
// question numbers are kept as separate entries - consumers keying by number
// must tolerate that.
func Segment(raw string) []StructuredAnswer {
	lines := strings.Split(raw, "\n")

	var out []StructuredAnswer
	var current string
	var fragments []string
	open := false

	for _, line := range lines {
		m := answerLineRE.FindStringSubmatch(line)
		if m != nil {
			if open {
				out = append(out, StructuredAnswer{
					QuestionNumber: current,
					Answer:         strings.Join(fragments, " "),
				})
			}
			current = m[1]
			fragments = []string{m[2]}
			open = true
			continue
		}
		if open {
			fragments = append(fragments, line)
		}
	}
	if open {
		out = append(out, StructuredAnswer{
			QuestionNumber: current,
			Answer:         strings.Join(fragments, " "),
		})
	}

	// No numbering anywhere: keep the whole text as a single answer rather
	// than returning nothing.
	if len(out) == 0 {
		return []StructuredAnswer{{QuestionNumber: NoNumberSentinel, Answer: raw}}
	}
	return out
}

// ExtractKey parses a cleanly formatted one-answer-per-line key into a mapping.
// Non-matching lines are ignored; a repeated question number overwrites the
// earlier value (last occurrence wins). There is no multi-line continuation and
// no N/A fallback here.
func ExtractKey(raw string) map[string]string {
	answers := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		m := keyLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		answers[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}
	return answers
}
