package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/message"
)

func i64Ptr(v int64) *int64 { return &v }

func TestMessageAddContentForwardRules(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	content := "hello"
	tooLong := strings.Repeat("a", message.ContentMaxLength+1)
	multibyteMax := strings.Repeat("é", message.ContentMaxLength)
	multibyteOver := strings.Repeat("é", message.ContentMaxLength+1)

	cases := []struct {
		name    string
		in      MessageAddInput
		wantErr error
	}{
		{
			name:    "neither content nor forward",
			in:      MessageAddInput{ChatID: 1},
			wantErr: message.ErrContentXorForward,
		},
		{
			name:    "content together with forward",
			in:      MessageAddInput{ChatID: 1, Content: &content, ForwardID: i64Ptr(5)},
			wantErr: message.ErrContentXorForward,
		},
		{
			name:    "forward together with reply",
			in:      MessageAddInput{ChatID: 1, ForwardID: i64Ptr(5), ReplyID: i64Ptr(6)},
			wantErr: message.ErrContentXorForward,
		},
		{
			name:    "forward together with file",
			in:      MessageAddInput{ChatID: 1, ForwardID: i64Ptr(5), FileID: i64Ptr(7)},
			wantErr: message.ErrContentXorForward,
		},
		{
			name:    "content over the character limit",
			in:      MessageAddInput{ChatID: 1, Content: &tooLong},
			wantErr: message.ErrInvalidContent,
		},
		{
			name:    "multibyte content over the character limit",
			in:      MessageAddInput{ChatID: 1, Content: &multibyteOver},
			wantErr: message.ErrInvalidContent,
		},
		{
			// 5000 multibyte characters exceed the limit in bytes but not
			// in characters, so validation passes and the empty store
			// answers with the membership failure.
			name:    "multibyte content at the character limit",
			in:      MessageAddInput{ChatID: 1, Content: &multibyteMax},
			wantErr: message.ErrChatNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewMessageService(&stubStore{})
			_, _, err := svc.Add(context.Background(), 1, tc.in, now)
			if err != tc.wantErr {
				t.Errorf("Add() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMessageEditWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := MessageEditInput{ID: 9, Content: "changed"}

	t.Run("window expired", func(t *testing.T) {
		store := &stubStore{scans: []func(dest ...any) error{
			func(dest ...any) error {
				*dest[0].(*time.Time) = now.Add(-message.EditWindow - time.Second)
				return nil
			},
		}}
		_, err := NewMessageService(store).Edit(context.Background(), 1, in, now)
		if err != message.ErrNotEditable {
			t.Errorf("Edit() error = %v, want %v", err, message.ErrNotEditable)
		}
	})

	t.Run("exactly at the window edge", func(t *testing.T) {
		store := &stubStore{scans: []func(dest ...any) error{
			func(dest ...any) error {
				*dest[0].(*time.Time) = now.Add(-message.EditWindow)
				return nil
			},
			func(dest ...any) error {
				*dest[0].(*int64) = 9
				return nil
			},
		}}
		rows, err := NewMessageService(store).Edit(context.Background(), 1, in, now)
		if err != nil {
			t.Fatalf("Edit() error = %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("got %d history rows, want 1", len(rows))
		}
	})

	t.Run("not the author or forwarded", func(t *testing.T) {
		_, err := NewMessageService(&stubStore{}).Edit(context.Background(), 1, in, now)
		if err != message.ErrNotFound {
			t.Errorf("Edit() error = %v, want %v", err, message.ErrNotFound)
		}
	})
}

func TestMessageRemoveWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := &stubStore{scans: []func(dest ...any) error{
		func(dest ...any) error {
			*dest[0].(*time.Time) = now.Add(-3 * time.Minute)
			return nil
		},
	}}
	_, err := NewMessageService(store).Remove(context.Background(), 1, 9, now)
	if err != message.ErrNotEditable {
		t.Errorf("Remove() error = %v, want %v", err, message.ErrNotEditable)
	}
}

func TestMessageSeenScope(t *testing.T) {
	cases := []struct {
		name    string
		in      MessageSeenInput
		wantErr error
	}{
		{
			name:    "neither chat nor thread",
			in:      MessageSeenInput{},
			wantErr: message.ErrNoTimelineSelected,
		},
		{
			name:    "invalid chat id",
			in:      MessageSeenInput{ChatID: i64Ptr(0)},
			wantErr: message.ErrInvalidChatID,
		},
		{
			name:    "invalid thread id",
			in:      MessageSeenInput{ThreadID: i64Ptr(0)},
			wantErr: message.ErrInvalidThreadID,
		},
		{
			name:    "thread the viewer cannot see",
			in:      MessageSeenInput{ThreadID: i64Ptr(999999)},
			wantErr: message.ErrThreadNotFound,
		},
		{
			name:    "chat the viewer does not belong to",
			in:      MessageSeenInput{ChatID: i64Ptr(4)},
			wantErr: message.ErrChatNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := NewMessageService(&stubStore{}).Seen(context.Background(), 1, tc.in)
			if err != tc.wantErr {
				t.Errorf("Seen() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMessageSearchValidation(t *testing.T) {
	cases := []struct {
		name    string
		in      MessageSearchInput
		wantErr error
	}{
		{
			name:    "empty term",
			in:      MessageSearchInput{Term: ""},
			wantErr: message.ErrInvalidSearch,
		},
		{
			name:    "chat and thread scope together",
			in:      MessageSearchInput{Term: "x", ChatID: i64Ptr(1), ThreadID: i64Ptr(2)},
			wantErr: message.ErrSearchScopeConflict,
		},
		{
			name:    "chat scope outside the viewer's chats",
			in:      MessageSearchInput{Term: "x", ChatID: i64Ptr(1)},
			wantErr: message.ErrNotPermitted,
		},
		{
			name:    "thread scope outside the viewer's chats",
			in:      MessageSearchInput{Term: "x", ThreadID: i64Ptr(2)},
			wantErr: message.ErrNotPermitted,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMessageSearchService(&stubStore{}).Search(context.Background(), 1, tc.in)
			if err != tc.wantErr {
				t.Errorf("Search() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDirectChatAddReturnsExisting(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &stubStore{scans: []func(dest ...any) error{
		func(dest ...any) error {
			*dest[0].(*int64) = 7
			return nil
		},
	}}

	id, rows, err := NewChatService(store).Add(context.Background(), 1, ChatAddInput{
		UserIDs: []int16{2},
	}, now)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id != 7 {
		t.Errorf("Add() id = %d, want the existing chat 7", id)
	}
	if len(rows) != 0 {
		t.Errorf("got %d history rows, want none for the idempotent add", len(rows))
	}
}
