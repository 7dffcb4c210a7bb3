package ocr

import (
	"context"
	"io"
)

// Extractor is the text-extraction collaborator. Implementations may return an
// empty string for unreadable input; callers must treat that as valid.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
	ExtractPath(ctx context.Context, path string) (string, error)
}
