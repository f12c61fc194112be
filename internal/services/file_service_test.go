package services

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
)

// recordingBackend counts writes so tests can pin down when the blob store
// is touched.
type recordingBackend struct {
	puts     int
	lastKey  string
	lastBody string
}

func (b *recordingBackend) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.puts++
	b.lastKey = key
	b.lastBody = string(raw)
	return nil
}

func (b *recordingBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, os.ErrNotExist
}

func TestFileAddWritesNoBlob(t *testing.T) {
	backend := &recordingBackend{}
	store := &stubStore{scans: []func(dest ...any) error{
		func(dest ...any) error {
			*dest[0].(*int64) = 3
			return nil
		},
	}}

	svc := NewFileService(store, backend)
	id, rows, err := svc.Add(context.Background(), FileAddInput{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Size:        12,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id != 3 {
		t.Errorf("Add() id = %d, want 3", id)
	}
	if len(rows) != 1 {
		t.Errorf("got %d history rows, want 1", len(rows))
	}
	// The body must reach the backend only through Store, after the
	// metadata transaction has committed.
	if backend.puts != 0 {
		t.Fatalf("Add() wrote %d blobs, want none", backend.puts)
	}

	if err := svc.Store(context.Background(), id, strings.NewReader("hello, world"), 12, "application/pdf"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if backend.puts != 1 || backend.lastKey != "3" {
		t.Errorf("Store() wrote key %q (%d writes), want one write under key 3", backend.lastKey, backend.puts)
	}
	if backend.lastBody != "hello, world" {
		t.Errorf("Store() body = %q", backend.lastBody)
	}
}
