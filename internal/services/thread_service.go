package services

import (
	"context"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/thread"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

type ThreadService struct {
	threads *repository.ThreadRepository
	chats   *repository.ChatRepository
}

func NewThreadService(db database.DBTX) *ThreadService {
	return &ThreadService{
		threads: repository.NewThreadRepository(db),
		chats:   repository.NewChatRepository(db),
	}
}

type ThreadAddInput struct {
	Title  string
	ChatID int64
}

// Add creates a thread inside a chat the actor can see. The chat owner id
// is denormalized onto the thread for later permission checks.
func (s *ThreadService) Add(ctx context.Context, actorID int16, in ThreadAddInput, now time.Time) (int64, []history.Row, error) {
	if !thread.ValidateTitle(in.Title) {
		return 0, nil, thread.ErrInvalidTitle
	}
	if !thread.ValidateID(in.ChatID) {
		return 0, nil, thread.ErrInvalidChatID
	}

	access, err := s.chats.GetForMember(ctx, in.ChatID, actorID)
	if err != nil {
		if database.IsNoRows(err) {
			return 0, nil, thread.ErrChatNotFound
		}
		return 0, nil, thread.StoreError(err)
	}

	id, err := s.threads.Insert(ctx, repository.ThreadInsert{
		Title:             in.Title,
		ChatID:            in.ChatID,
		ThreadOwnerID:     actorID,
		ChatOwnerID:       access.OwnerID,
		LastMessageSentAt: now,
	})
	if err != nil {
		return 0, nil, thread.StoreError(err)
	}

	histories := []history.Row{{
		Feature:    history.FeatureThread,
		Table:      "threads",
		RowID:      id,
		Operations: []string{thread.OperationAdd},
		Data: map[string]any{
			"title":             in.Title,
			"chatID":            in.ChatID,
			"threadOwnerID":     actorID,
			"chatOwnerID":       access.OwnerID,
			"lastMessageSentAt": now,
		},
	}}
	return id, histories, nil
}

type ThreadEditInput struct {
	ID    int64
	Title string
}

// Edit renames a thread. The thread owner and the chat owner may both do
// this.
func (s *ThreadService) Edit(ctx context.Context, actorID int16, in ThreadEditInput) ([]history.Row, error) {
	if !thread.ValidateID(in.ID) {
		return nil, thread.ErrInvalidID
	}
	if !thread.ValidateTitle(in.Title) {
		return nil, thread.ErrInvalidTitle
	}
	if err := s.threads.ExistsForOwner(ctx, in.ID, actorID); err != nil {
		if database.IsNoRows(err) {
			return nil, thread.ErrNotFound
		}
		return nil, thread.StoreError(err)
	}
	if err := s.threads.UpdateTitle(ctx, in.ID, in.Title); err != nil {
		return nil, thread.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureThread,
		Table:      "threads",
		RowID:      in.ID,
		Operations: []string{thread.OperationEditTitle},
		Data:       map[string]any{"title": in.Title},
	}}
	return histories, nil
}

// Remove deletes a thread; its messages go with it via cascade.
func (s *ThreadService) Remove(ctx context.Context, actorID int16, id int64) ([]history.Row, error) {
	if !thread.ValidateID(id) {
		return nil, thread.ErrInvalidID
	}
	if err := s.threads.ExistsForOwner(ctx, id, actorID); err != nil {
		if database.IsNoRows(err) {
			return nil, thread.ErrNotFound
		}
		return nil, thread.StoreError(err)
	}
	if err := s.threads.Delete(ctx, id); err != nil {
		return nil, thread.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureThread,
		Table:      "threads",
		RowID:      id,
		Operations: []string{thread.OperationRemove},
	}}
	return histories, nil
}
