package storage

import (
	"context"
	"io"
)

// Backend stores file bodies. The database row owns the metadata; backends
// only see the row id as the object key.
type Backend interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
