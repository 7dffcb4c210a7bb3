package storage

import "io"

// BlobStore holds the raw uploaded sheet and key files. Only the extracted
// text flows through the pipeline; the blob is kept for re-inspection.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
