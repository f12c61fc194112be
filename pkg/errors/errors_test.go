package chatroom_errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFrom(t *testing.T) {
	base := New("Chat", 301)

	got, ok := From(base)
	if !ok || got.Code != 301 || got.Feature != "Chat" {
		t.Errorf("From(direct) = (%v, %v)", got, ok)
	}

	wrapped := fmt.Errorf("listing failed: %w", base)
	got, ok = From(wrapped)
	if !ok || got.Code != 301 {
		t.Errorf("From(wrapped) = (%v, %v)", got, ok)
	}

	if _, ok := From(errors.New("plain")); ok {
		t.Error("plain errors should not convert")
	}
}

func TestIsStore(t *testing.T) {
	storeErr := Store("User", errors.New("connection reset"))
	if !IsStore(storeErr) {
		t.Error("store-wrapped error should report as store error")
	}
	if IsStore(New("User", 201)) {
		t.Error("validation error should not report as store error")
	}
}
