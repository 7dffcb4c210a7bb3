package summarize

import "context"

// Fallback strings stored when summarization degrades. The pipeline never
// fails an ingestion because a summary could not be produced.
const (
	FallbackUnavailable = "Summary not available"
	FallbackError       = "Error generating summary"
)

// Summarizer condenses a single answer's text. Implementations may fail;
// callers substitute a fallback string and continue.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
