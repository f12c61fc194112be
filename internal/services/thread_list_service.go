package services

import (
	"context"

	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/domain/thread"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

// ThreadListService computes the per-chat thread list with the same
// last-message and first-unseen treatment as the chat list.
type ThreadListService struct {
	threads  *repository.ThreadRepository
	chats    *repository.ChatRepository
	messages *repository.MessageRepository
}

func NewThreadListService(db database.DBTX) *ThreadListService {
	return &ThreadListService{
		threads:  repository.NewThreadRepository(db),
		chats:    repository.NewChatRepository(db),
		messages: repository.NewMessageRepository(db),
	}
}

type ThreadSummary struct {
	ID                   int64
	Title                string
	OwnerID              int16
	LastMessage          *LastMessage
	FirstUnseenMessageID *int64
}

type ThreadListResult struct {
	Threads []ThreadSummary
	Total   int64
}

type ThreadListInput struct {
	ChatID  int64
	Start   int64
	Step    int64
	ScopeID *int64
}

func (s *ThreadListService) List(ctx context.Context, viewerID int16, in ThreadListInput) (ThreadListResult, error) {
	if !thread.ValidateID(in.ChatID) {
		return ThreadListResult{}, thread.ErrInvalidChatID
	}
	if _, err := s.chats.GetForMember(ctx, in.ChatID, viewerID); err != nil {
		if database.IsNoRows(err) {
			return ThreadListResult{}, thread.ErrChatNotFound
		}
		return ThreadListResult{}, thread.StoreError(err)
	}

	rows, err := s.threads.ListForChat(ctx, in.ChatID, in.Start, in.Step, in.ScopeID)
	if err != nil {
		return ThreadListResult{}, thread.StoreError(err)
	}
	total, err := s.threads.CountForChat(ctx, in.ChatID, in.ScopeID)
	if err != nil {
		return ThreadListResult{}, thread.StoreError(err)
	}
	if len(rows) == 0 {
		return ThreadListResult{Total: total}, nil
	}

	threadIDs := make([]int64, len(rows))
	for i, row := range rows {
		threadIDs[i] = row.ID
	}

	lastRows, err := s.messages.LastByThread(ctx, threadIDs)
	if err != nil {
		return ThreadListResult{}, thread.StoreError(err)
	}
	unseen, err := s.messages.FirstUnseenByThread(ctx, threadIDs, viewerID)
	if err != nil {
		return ThreadListResult{}, thread.StoreError(err)
	}

	return ThreadListResult{
		Threads: buildThreadSummaries(rows, lastRows, unseen),
		Total:   total,
	}, nil
}

func buildThreadSummaries(
	rows []repository.ThreadListRow,
	lastRows []repository.LastMessageRow,
	unseen map[int64]int64,
) []ThreadSummary {
	lastByThread := make(map[int64]repository.LastMessageRow, len(lastRows))
	for _, row := range lastRows {
		lastByThread[row.Key] = row
	}

	summaries := make([]ThreadSummary, 0, len(rows))
	for _, row := range rows {
		summary := ThreadSummary{
			ID:      row.ID,
			Title:   row.Title,
			OwnerID: row.OwnerID,
		}
		if last, ok := lastByThread[row.ID]; ok {
			content := last.Content
			if last.IsDeleted {
				content = message.DeletedContent
			}
			summary.LastMessage = &LastMessage{
				ID:        last.ID,
				Content:   content,
				UserID:    last.UserID,
				CreatedAt: last.CreatedAt,
				FileName:  last.FileName,
				IsDeleted: last.IsDeleted,
			}
		}
		if id, ok := unseen[row.ID]; ok {
			unseenID := id
			summary.FirstUnseenMessageID = &unseenID
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
