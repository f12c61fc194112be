package storage

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestLocalPutGet(t *testing.T) {
	backend, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	content := []byte("attachment body")
	if err := backend.Put(ctx, "42", bytes.NewReader(content), int64(len(content)), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	body, err := backend.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round trip = %q, want %q", got, content)
	}
}

func TestLocalGetMissing(t *testing.T) {
	backend, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := backend.Get(context.Background(), "absent"); err == nil {
		t.Error("missing key should return an error")
	}
}
