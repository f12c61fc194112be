package services

import (
	"context"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

const (
	TimelineStepMin = 1
	TimelineStepMax = 50
)

type MessageService struct {
	messages *repository.MessageRepository
	chats    *repository.ChatRepository
	threads  *repository.ThreadRepository
	files    *repository.FileRepository
}

func NewMessageService(db database.DBTX) *MessageService {
	return &MessageService{
		messages: repository.NewMessageRepository(db),
		chats:    repository.NewChatRepository(db),
		threads:  repository.NewThreadRepository(db),
		files:    repository.NewFileRepository(db),
	}
}

type MessageAddInput struct {
	ChatID    int64
	ThreadID  *int64
	Content   *string
	ReplyID   *int64
	ForwardID *int64
	FileID    *int64
}

// Add posts a message. A message carries either fresh content or a forward
// reference, never both and never neither. Forwards copy the source's
// content and file and record provenance; the source stays untouched.
func (s *MessageService) Add(ctx context.Context, actorID int16, in MessageAddInput, now time.Time) (int64, []history.Row, error) {
	if !message.ValidateID(in.ChatID) {
		return 0, nil, message.ErrInvalidChatID
	}
	if (in.Content == nil) == (in.ForwardID == nil) {
		return 0, nil, message.ErrContentXorForward
	}
	if in.Content != nil && !message.ValidateContent(*in.Content) {
		return 0, nil, message.ErrInvalidContent
	}
	if in.ThreadID != nil && !message.ValidateID(*in.ThreadID) {
		return 0, nil, message.ErrInvalidThreadID
	}
	if in.ReplyID != nil && !message.ValidateID(*in.ReplyID) {
		return 0, nil, message.ErrInvalidReplyID
	}
	if in.ForwardID != nil && !message.ValidateID(*in.ForwardID) {
		return 0, nil, message.ErrInvalidForwardID
	}
	if in.FileID != nil && !message.ValidateID(*in.FileID) {
		return 0, nil, message.ErrInvalidFileID
	}
	if in.ForwardID != nil && (in.ReplyID != nil || in.FileID != nil) {
		return 0, nil, message.ErrContentXorForward
	}

	if _, err := s.chats.GetForMember(ctx, in.ChatID, actorID); err != nil {
		if database.IsNoRows(err) {
			return 0, nil, message.ErrChatNotFound
		}
		return 0, nil, message.StoreError(err)
	}
	if in.ThreadID != nil {
		if err := s.threads.ExistsInChat(ctx, *in.ThreadID, in.ChatID); err != nil {
			if database.IsNoRows(err) {
				return 0, nil, message.ErrThreadNotFound
			}
			return 0, nil, message.StoreError(err)
		}
	}

	insert := repository.MessageInsert{
		ChatID:    in.ChatID,
		ThreadID:  in.ThreadID,
		UserID:    actorID,
		CreatedAt: now,
	}

	if in.Content != nil {
		insert.Content = *in.Content
	}

	if in.ReplyID != nil {
		source, err := s.messages.GetInChat(ctx, *in.ReplyID, in.ChatID)
		if err != nil {
			if database.IsNoRows(err) {
				return 0, nil, message.ErrNotFound
			}
			return 0, nil, message.StoreError(err)
		}
		insert.Reply = &message.Reply{
			MessageID: source.ID,
			Content:   source.Content,
			UserID:    source.UserID,
		}
	}

	if in.FileID != nil {
		f, err := s.files.Get(ctx, *in.FileID)
		if err != nil {
			if database.IsNoRows(err) {
				return 0, nil, message.ErrFileNotFound
			}
			return 0, nil, message.StoreError(err)
		}
		insert.FileID = &f.ID
		insert.FileName = &f.Name
		insert.FileSize = &f.Size
	}

	if in.ForwardID != nil {
		source, err := s.messages.GetForwardSource(ctx, *in.ForwardID)
		if err != nil {
			if database.IsNoRows(err) {
				return 0, nil, message.ErrForwardNotFound
			}
			return 0, nil, message.StoreError(err)
		}
		insert.Content = source.Content
		insert.FileID = source.FileID
		insert.FileName = source.FileName
		insert.FileSize = source.FileSize
		insert.Forward = &message.Forward{
			FromMessageID:   *in.ForwardID,
			FromChatID:      source.ChatID,
			FromChatIsGroup: source.ChatIsGroup,
			FromUserID:      source.UserID,
			FromThreadID:    source.ThreadID,
			ForwardedAt:     source.CreatedAt,
		}
	}

	id, err := s.messages.Insert(ctx, insert)
	if err != nil {
		return 0, nil, message.StoreError(err)
	}
	// The author has seen their own message from the start.
	if err := s.messages.InsertSeen(ctx, id, actorID); err != nil {
		return 0, nil, message.StoreError(err)
	}

	histories := []history.Row{
		{
			Feature:    history.FeatureMessage,
			Table:      "messages",
			RowID:      id,
			Operations: []string{message.OperationAdd, message.OperationSeen},
			Data: map[string]any{
				"content":   insert.Content,
				"chatID":    in.ChatID,
				"threadID":  in.ThreadID,
				"reply":     insert.Reply,
				"forward":   insert.Forward,
				"userID":    actorID,
				"fileID":    insert.FileID,
				"fileName":  insert.FileName,
				"fileSize":  insert.FileSize,
				"createdAt": now,
			},
		},
		{
			Feature:    history.FeatureChat,
			Table:      "chats",
			RowID:      in.ChatID,
			Operations: []string{message.OperationEditChatLastMessageSentAt},
			Data:       map[string]any{"lastMessageSentAt": now},
		},
	}

	if err := s.chats.TouchLastMessage(ctx, in.ChatID, now); err != nil {
		return 0, nil, message.StoreError(err)
	}
	if in.ThreadID != nil {
		if err := s.threads.TouchLastMessage(ctx, *in.ThreadID, now); err != nil {
			return 0, nil, message.StoreError(err)
		}
		histories = append(histories, history.Row{
			Feature:    history.FeatureThread,
			Table:      "threads",
			RowID:      *in.ThreadID,
			Operations: []string{message.OperationEditThreadLastMessageSent},
			Data:       map[string]any{"lastMessageSentAt": now},
		})
	}

	return id, histories, nil
}

type MessageEditInput struct {
	ID      int64
	Content string
}

// Edit rewrites a message's content. Only the author may edit, only inside
// the edit window, and forwarded messages never change.
func (s *MessageService) Edit(ctx context.Context, actorID int16, in MessageEditInput, now time.Time) ([]history.Row, error) {
	if !message.ValidateID(in.ID) {
		return nil, message.ErrInvalidID
	}
	if !message.ValidateContent(in.Content) {
		return nil, message.ErrInvalidContent
	}
	row, err := s.messages.GetAuthored(ctx, in.ID, actorID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, message.ErrNotFound
		}
		return nil, message.StoreError(err)
	}
	if !message.Editable(row.CreatedAt, now) {
		return nil, message.ErrNotEditable
	}
	if err := s.messages.SetContent(ctx, in.ID, in.Content); err != nil {
		return nil, message.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureMessage,
		Table:      "messages",
		RowID:      in.ID,
		Operations: []string{message.OperationEditContent, message.OperationEditIsEdited},
		Data:       map[string]any{"content": in.Content, "isEdited": true},
	}}
	return histories, nil
}

// Remove soft-deletes a message under the same author-and-window rule as
// Edit. The row stays so replies and aggregations keep their anchor.
func (s *MessageService) Remove(ctx context.Context, actorID int16, id int64, now time.Time) ([]history.Row, error) {
	if !message.ValidateID(id) {
		return nil, message.ErrInvalidID
	}
	row, err := s.messages.GetAuthored(ctx, id, actorID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, message.ErrNotFound
		}
		return nil, message.StoreError(err)
	}
	if !message.Editable(row.CreatedAt, now) {
		return nil, message.ErrNotEditable
	}
	if err := s.messages.SoftDelete(ctx, id); err != nil {
		return nil, message.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureMessage,
		Table:      "messages",
		RowID:      id,
		Operations: []string{message.OperationEditIsDeleted},
		Data:       map[string]any{"isDeleted": true},
	}}
	return histories, nil
}

type MessageSeenInput struct {
	ChatID   *int64
	ThreadID *int64
}

// Seen marks every message of one timeline as seen by the actor. Seen sets
// only grow; messages already seen are skipped.
func (s *MessageService) Seen(ctx context.Context, actorID int16, in MessageSeenInput) ([]int64, []history.Row, error) {
	if in.ChatID == nil && in.ThreadID == nil {
		return nil, nil, message.ErrNoTimelineSelected
	}
	if in.ChatID != nil {
		if !message.ValidateID(*in.ChatID) {
			return nil, nil, message.ErrInvalidChatID
		}
		if _, err := s.chats.GetForMember(ctx, *in.ChatID, actorID); err != nil {
			if database.IsNoRows(err) {
				return nil, nil, message.ErrChatNotFound
			}
			return nil, nil, message.StoreError(err)
		}
	}
	if in.ThreadID != nil {
		if !message.ValidateID(*in.ThreadID) {
			return nil, nil, message.ErrInvalidThreadID
		}
		var err error
		if in.ChatID != nil {
			err = s.threads.ExistsInChat(ctx, *in.ThreadID, *in.ChatID)
		} else {
			err = s.threads.ExistsForViewer(ctx, *in.ThreadID, actorID)
		}
		if err != nil {
			if database.IsNoRows(err) {
				return nil, nil, message.ErrThreadNotFound
			}
			return nil, nil, message.StoreError(err)
		}
	}

	ids, err := s.messages.MarkSeen(ctx, in.ChatID, in.ThreadID, actorID)
	if err != nil {
		return nil, nil, message.StoreError(err)
	}

	histories := make([]history.Row, 0, len(ids))
	for _, id := range ids {
		histories = append(histories, history.Row{
			Feature:    history.FeatureMessage,
			Table:      "messages",
			RowID:      id,
			Operations: []string{message.OperationSeen},
			Data:       map[string]any{"id": id, "userID": actorID},
		})
	}
	return ids, histories, nil
}

type TimelineInput struct {
	ChatID    int64
	ThreadID  *int64
	AnchorID  *int64
	Ascending bool
	Step      int64
}

// Timeline pages one chat or thread timeline around an anchor message.
// Without an anchor it returns the newest page. Deleted messages come back
// with masked content.
func (s *MessageService) Timeline(ctx context.Context, actorID int16, in TimelineInput) ([]repository.MessageRow, error) {
	if !message.ValidateID(in.ChatID) {
		return nil, message.ErrInvalidChatID
	}
	if in.Step < TimelineStepMin || in.Step > TimelineStepMax {
		return nil, message.ErrInvalidStep
	}
	if _, err := s.chats.GetForMember(ctx, in.ChatID, actorID); err != nil {
		if database.IsNoRows(err) {
			return nil, message.ErrChatNotFound
		}
		return nil, message.StoreError(err)
	}
	if in.ThreadID != nil {
		if err := s.threads.ExistsInChat(ctx, *in.ThreadID, in.ChatID); err != nil {
			if database.IsNoRows(err) {
				return nil, message.ErrThreadNotFound
			}
			return nil, message.StoreError(err)
		}
	}

	anchor := int64(0)
	ascending := in.Ascending
	if in.AnchorID != nil {
		if !message.ValidateID(*in.AnchorID) {
			return nil, message.ErrInvalidID
		}
		if _, err := s.messages.GetAnchor(ctx, *in.AnchorID); err != nil {
			if database.IsNoRows(err) {
				return nil, message.ErrNotFound
			}
			return nil, message.StoreError(err)
		}
		anchor = *in.AnchorID
	} else if !ascending {
		anchor = int64(1)<<62 - 1
	}

	rows, err := s.messages.ListWindow(ctx, in.ChatID, in.ThreadID, anchor, ascending, in.Step)
	if err != nil {
		return nil, message.StoreError(err)
	}
	for i := range rows {
		if rows[i].IsDeleted {
			rows[i].Content = message.DeletedContent
			rows[i].FileID = nil
			rows[i].FileName = nil
		}
	}
	return rows, nil
}
