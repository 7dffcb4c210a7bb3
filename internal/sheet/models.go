package sheet

// Sheet status values. A sheet is created Pending and moves to Evaluated
// either by the objective grader or by a teacher's submit.
const (
	StatusPending   = "Pending"
	StatusEvaluated = "Evaluated"
)

// Answer type values.
const (
	TypeObjective   = "objective"
	TypeDescriptive = "descriptive"
)

// Evaluation method values (empty until a sheet is evaluated).
const (
	MethodAuto   = "auto"
	MethodManual = "manual"
)

// EvaluatedBySystem marks sheets graded by the objective grader.
const EvaluatedBySystem = "system"

// StructuredAnswer is one question-number/answer pair extracted from OCR text.
// QuestionNumber is the numeral as written on the sheet, or "N/A" when the
// extracted text carried no numbering at all.
type StructuredAnswer struct {
	QuestionNumber string `json:"question_number"`
	Answer         string `json:"answer"`
}

// SummarizedAnswer pairs a question number with a best-effort summary of the
// student's answer. Summarization failures leave a fallback string here, never
// an empty slot.
type SummarizedAnswer struct {
	QuestionNumber string `json:"question_number"`
	Summary        string `json:"summary"`
}

// AnswerSheet is the central entity: one uploaded sheet for one student.
// StructuredAnswers and SummarizedAnswers are fixed at creation; Marks grows as
// questions are graded.
type AnswerSheet struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	UserName   string `json:"user_name"`
	ExamCode   string `json:"exam_code"`
	AnswerType string `json:"answer_type"` // objective | descriptive
	FilePath   string `json:"file_path,omitempty"`
	UploadedAt int64  `json:"uploaded_at,omitempty"`

	StructuredAnswers []StructuredAnswer `json:"structured_answers"`
	SummarizedAnswers []SummarizedAnswer `json:"summarized_answers"`

	Marks      map[string]int `json:"marks"` // question_number -> score
	TotalMarks int            `json:"total_marks"`
	Status     string         `json:"status"` // Pending | Evaluated

	EvaluationMethod string `json:"evaluation_method,omitempty"` // auto | manual
	EvaluatedAt      int64  `json:"evaluated_at,omitempty"`
	EvaluatedBy      string `json:"evaluated_by,omitempty"` // teacher id or "system"
}

// AnswerKey holds the correct answers for one exam code. There is exactly one
// key per exam code; re-upload replaces Answers and bumps UpdatedAt.
type AnswerKey struct {
	ExamCode   string            `json:"exam_code"`
	ExamName   string            `json:"exam_name"`
	AnswerType string            `json:"answer_type"` // always "objective"
	Answers    map[string]string `json:"answer_key"`  // question_number -> correct answer
	CreatedBy  string            `json:"created_by,omitempty"`
	CreatedAt  int64             `json:"created_at,omitempty"`
	UpdatedAt  int64             `json:"updated_at,omitempty"`
}

// SheetSummary is the projection returned by pending-sheet listings.
type SheetSummary struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	FilePath  string `json:"file_path,omitempty"`
}

// Complete reports whether every structured answer has a mark recorded.
// Sheets with duplicate question numbers are complete once the shared number
// is marked.
func (a *AnswerSheet) Complete() bool {
	for _, sa := range a.StructuredAnswers {
		if _, ok := a.Marks[sa.QuestionNumber]; !ok {
			return false
		}
	}
	return true
}
