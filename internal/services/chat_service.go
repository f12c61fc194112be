package services

import (
	"context"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/chat"
	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

type ChatService struct {
	chats *repository.ChatRepository
	users *repository.UserRepository
	files *repository.FileRepository
}

func NewChatService(db database.DBTX) *ChatService {
	return &ChatService{
		chats: repository.NewChatRepository(db),
		users: repository.NewUserRepository(db),
		files: repository.NewFileRepository(db),
	}
}

type ChatAddInput struct {
	Title   *string
	UserIDs []int16
	IsGroup bool
	FileID  *int64
}

// Add creates a chat. Creating a direct chat that already exists is not an
// error: the existing chat id comes back with no history rows.
func (s *ChatService) Add(ctx context.Context, actorID int16, in ChatAddInput, now time.Time) (int64, []history.Row, error) {
	for _, id := range in.UserIDs {
		if id <= 0 {
			return 0, nil, chat.ErrInvalidUserID
		}
		if id == actorID {
			return 0, nil, chat.ErrOwnerInUserIDs
		}
	}

	if !in.IsGroup {
		if len(in.UserIDs) != 1 {
			return 0, nil, chat.ErrMultiUserDirect
		}
		if in.Title != nil {
			return 0, nil, chat.ErrInvalidTitle
		}
		if in.FileID != nil {
			return 0, nil, chat.ErrDirectWithFile
		}
		existing, found, err := s.chats.FindDirect(ctx, actorID, in.UserIDs[0])
		if err != nil {
			return 0, nil, chat.StoreError(err)
		}
		if found {
			return existing, nil, nil
		}
	} else {
		if in.Title == nil || !chat.ValidateTitle(*in.Title) {
			return 0, nil, chat.ErrInvalidTitle
		}
	}

	names, err := s.users.GetNames(ctx, in.UserIDs)
	if err != nil {
		return 0, nil, chat.StoreError(err)
	}
	for _, id := range in.UserIDs {
		if _, ok := names[id]; !ok {
			return 0, nil, chat.ErrInvalidUserID
		}
	}

	var fileID *int64
	if in.IsGroup {
		id := message.DefaultFileID
		if in.FileID != nil {
			exists, err := s.files.Exists(ctx, *in.FileID)
			if err != nil {
				return 0, nil, chat.StoreError(err)
			}
			if !exists {
				return 0, nil, chat.ErrFileNotFound
			}
			id = *in.FileID
		}
		fileID = &id
	}

	chatID, err := s.chats.Insert(ctx, repository.ChatInsert{
		Title:             in.Title,
		OwnerID:           actorID,
		IsGroup:           in.IsGroup,
		LastMessageSentAt: now,
		FileID:            fileID,
	})
	if err != nil {
		return 0, nil, chat.StoreError(err)
	}
	if err := s.chats.AddMembers(ctx, chatID, in.UserIDs, now); err != nil {
		return 0, nil, chat.StoreError(err)
	}

	histories := []history.Row{{
		Feature:    history.FeatureChat,
		Table:      "chats",
		RowID:      chatID,
		Operations: []string{chat.OperationAdd},
		Data: map[string]any{
			"title":             in.Title,
			"ownerID":           actorID,
			"userIDs":           in.UserIDs,
			"isGroup":           in.IsGroup,
			"fileID":            fileID,
			"lastMessageSentAt": now,
		},
	}}
	return chatID, histories, nil
}

type ChatEditInput struct {
	ID            int64
	Title         *string
	AddUserIDs    []int16
	RemoveUserIDs []int16
	FileID        *int64
}

// Edit changes a group chat owned by the actor. Direct chats never change.
func (s *ChatService) Edit(ctx context.Context, actorID int16, in ChatEditInput, now time.Time) ([]history.Row, error) {
	access, err := s.chats.GetOwned(ctx, in.ID, actorID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, chat.ErrNotFound
		}
		return nil, chat.StoreError(err)
	}
	if !access.IsGroup {
		return nil, chat.ErrDirectImmutable
	}

	var ops []string
	data := map[string]any{}

	if in.Title != nil {
		if !chat.ValidateTitle(*in.Title) {
			return nil, chat.ErrInvalidTitle
		}
		ops = append(ops, chat.OperationEditTitle)
		data["title"] = *in.Title
	}

	if in.FileID != nil {
		exists, err := s.files.Exists(ctx, *in.FileID)
		if err != nil {
			return nil, chat.StoreError(err)
		}
		if !exists {
			return nil, chat.ErrFileNotFound
		}
		ops = append(ops, chat.OperationEditFileID)
		data["fileID"] = *in.FileID
	}

	if len(in.AddUserIDs) != 0 {
		names, err := s.users.GetNames(ctx, in.AddUserIDs)
		if err != nil {
			return nil, chat.StoreError(err)
		}
		for _, id := range in.AddUserIDs {
			if id == actorID {
				return nil, chat.ErrOwnerInUserIDs
			}
			if _, ok := names[id]; !ok {
				return nil, chat.ErrInvalidUserID
			}
			member, err := s.chats.IsMember(ctx, in.ID, id)
			if err != nil {
				return nil, chat.StoreError(err)
			}
			if member {
				return nil, chat.ErrAlreadyMember
			}
		}
		ops = append(ops, chat.OperationEditUserIDs)
		data["addUserIDs"] = in.AddUserIDs
	}

	if len(in.RemoveUserIDs) != 0 {
		for _, id := range in.RemoveUserIDs {
			member, err := s.chats.IsMember(ctx, in.ID, id)
			if err != nil {
				return nil, chat.StoreError(err)
			}
			if !member {
				return nil, chat.ErrNotMember
			}
		}
		ops = append(ops, chat.OperationEditUserIDs)
		data["removeUserIDs"] = in.RemoveUserIDs
	}

	if len(ops) == 0 {
		return nil, chat.ErrInvalidID
	}

	if in.Title != nil || in.FileID != nil {
		if err := s.chats.Update(ctx, in.ID, in.Title, in.FileID); err != nil {
			return nil, chat.StoreError(err)
		}
	}
	if len(in.AddUserIDs) != 0 {
		if err := s.chats.AddMembers(ctx, in.ID, in.AddUserIDs, now); err != nil {
			return nil, chat.StoreError(err)
		}
	}
	if len(in.RemoveUserIDs) != 0 {
		if err := s.chats.RemoveMembers(ctx, in.ID, in.RemoveUserIDs); err != nil {
			return nil, chat.StoreError(err)
		}
	}

	histories := []history.Row{{
		Feature:    history.FeatureChat,
		Table:      "chats",
		RowID:      in.ID,
		Operations: ops,
		Data:       data,
	}}
	return histories, nil
}

// Remove deletes a chat the actor owns; members, threads and messages go
// with it via cascades.
func (s *ChatService) Remove(ctx context.Context, actorID int16, id int64) ([]history.Row, error) {
	if _, err := s.chats.GetOwned(ctx, id, actorID); err != nil {
		if database.IsNoRows(err) {
			return nil, chat.ErrNotFound
		}
		return nil, chat.StoreError(err)
	}
	if err := s.chats.Delete(ctx, id); err != nil {
		return nil, chat.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureChat,
		Table:      "chats",
		RowID:      id,
		Operations: []string{chat.OperationRemove},
	}}
	return histories, nil
}
