package services

import (
	"context"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

// MessageSearchService finds messages whose content or file name contains a
// term. The scope is either one chat's main timeline, one thread, or every
// conversation the viewer belongs to.
type MessageSearchService struct {
	messages *repository.MessageRepository
	chats    *repository.ChatRepository
	threads  *repository.ThreadRepository
	users    *repository.UserRepository
}

func NewMessageSearchService(db database.DBTX) *MessageSearchService {
	return &MessageSearchService{
		messages: repository.NewMessageRepository(db),
		chats:    repository.NewChatRepository(db),
		threads:  repository.NewThreadRepository(db),
		users:    repository.NewUserRepository(db),
	}
}

type MessageSearchInput struct {
	Term     string
	ChatID   *int64
	ThreadID *int64
	Start    int64
	Step     int64
}

// SearchMatch is one hit. The chat fields are filled only by the
// cross-conversation search; scoped searches address a conversation the
// caller already has open.
type SearchMatch struct {
	ID          int64
	ChatID      int64
	ThreadID    *int64
	Content     string
	UserID      int16
	CreatedAt   time.Time
	FileName    *string
	ChatTitle   *string
	ChatIsGroup bool
	ChatFileID  *int64
}

type MessageSearchResult struct {
	Messages []SearchMatch
	Total    int64
}

func (s *MessageSearchService) Search(ctx context.Context, viewerID int16, in MessageSearchInput) (MessageSearchResult, error) {
	if !message.ValidateContent(in.Term) {
		return MessageSearchResult{}, message.ErrInvalidSearch
	}
	if in.ChatID != nil && in.ThreadID != nil {
		return MessageSearchResult{}, message.ErrSearchScopeConflict
	}

	var (
		chatIDs  []int64
		chatRows []repository.ChatListRow
		members  map[int64][]int16
	)
	switch {
	case in.ChatID != nil:
		if !message.ValidateID(*in.ChatID) {
			return MessageSearchResult{}, message.ErrInvalidChatID
		}
		if _, err := s.chats.GetForMember(ctx, *in.ChatID, viewerID); err != nil {
			if database.IsNoRows(err) {
				return MessageSearchResult{}, message.ErrNotPermitted
			}
			return MessageSearchResult{}, message.StoreError(err)
		}
	case in.ThreadID != nil:
		if !message.ValidateID(*in.ThreadID) {
			return MessageSearchResult{}, message.ErrInvalidThreadID
		}
		if err := s.threads.ExistsForViewer(ctx, *in.ThreadID, viewerID); err != nil {
			if database.IsNoRows(err) {
				return MessageSearchResult{}, message.ErrNotPermitted
			}
			return MessageSearchResult{}, message.StoreError(err)
		}
	default:
		rows, err := s.chats.ListForViewer(ctx, viewerID, 0, -1, nil)
		if err != nil {
			return MessageSearchResult{}, message.StoreError(err)
		}
		if len(rows) == 0 {
			return MessageSearchResult{}, nil
		}
		chatRows = rows
		chatIDs = make([]int64, len(rows))
		for i, row := range rows {
			chatIDs[i] = row.ID
		}
		members, err = s.chats.ListMembers(ctx, chatIDs)
		if err != nil {
			return MessageSearchResult{}, message.StoreError(err)
		}
	}

	hits, err := s.messages.Search(ctx, in.Term, in.ChatID, in.ThreadID, chatIDs, in.Start, in.Step)
	if err != nil {
		return MessageSearchResult{}, message.StoreError(err)
	}
	total, err := s.messages.SearchCount(ctx, in.Term, in.ChatID, in.ThreadID, chatIDs)
	if err != nil {
		return MessageSearchResult{}, message.StoreError(err)
	}

	matches := make([]SearchMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, SearchMatch{
			ID:        hit.ID,
			ChatID:    hit.ChatID,
			ThreadID:  hit.ThreadID,
			Content:   hit.Content,
			UserID:    hit.UserID,
			CreatedAt: hit.CreatedAt,
			FileName:  hit.FileName,
		})
	}

	if chatRows != nil {
		peers := directPeers(chatRows, members, viewerID)
		var peerIDs []int16
		for _, id := range peers {
			peerIDs = append(peerIDs, id)
		}
		displays, err := s.users.GetDisplays(ctx, peerIDs)
		if err != nil {
			return MessageSearchResult{}, message.StoreError(err)
		}

		threadSet := make(map[int64]struct{})
		var threadIDs []int64
		for _, hit := range hits {
			if hit.ThreadID == nil {
				continue
			}
			if _, ok := threadSet[*hit.ThreadID]; ok {
				continue
			}
			threadSet[*hit.ThreadID] = struct{}{}
			threadIDs = append(threadIDs, *hit.ThreadID)
		}
		titles, err := s.threads.GetTitles(ctx, threadIDs)
		if err != nil {
			return MessageSearchResult{}, message.StoreError(err)
		}

		annotateSearchMatches(matches, chatRows, peers, displays, titles)
	}

	return MessageSearchResult{Messages: matches, Total: total}, nil
}

// annotateSearchMatches fills each match's chat fields from the viewer's
// conversation list. Direct chats show the peer's name and avatar; hits
// inside a thread extend the title with the thread's own.
func annotateSearchMatches(
	matches []SearchMatch,
	chatRows []repository.ChatListRow,
	peers map[int64]int16,
	displays map[int16]repository.UserDisplay,
	threadTitles map[int64]string,
) {
	chatByID := make(map[int64]repository.ChatListRow, len(chatRows))
	for _, row := range chatRows {
		chatByID[row.ID] = row
	}
	for i := range matches {
		row, ok := chatByID[matches[i].ChatID]
		if !ok {
			continue
		}
		matches[i].ChatIsGroup = row.IsGroup
		if row.IsGroup {
			matches[i].ChatTitle = row.Title
			matches[i].ChatFileID = row.FileID
		} else if peerID, ok := peers[row.ID]; ok {
			if d, ok := displays[peerID]; ok {
				title := d.Name
				matches[i].ChatTitle = &title
				matches[i].ChatFileID = d.FileID
			}
		}
		if matches[i].ThreadID != nil && matches[i].ChatTitle != nil {
			if t, ok := threadTitles[*matches[i].ThreadID]; ok {
				title := *matches[i].ChatTitle + " # " + t
				matches[i].ChatTitle = &title
			}
		}
	}
}
