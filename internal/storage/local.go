package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// Local writes file bodies under a single directory, one file per key.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	f, err := os.Create(filepath.Join(l.dir, key))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(l.dir, key))
}
