package services

import (
	"context"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/chat"
	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

// ChatListService computes the paginated chat list: one summary per chat
// the viewer belongs to, ordered by recency, with the title resolved, the
// last main-timeline message attached and the first unseen message located.
type ChatListService struct {
	chats    *repository.ChatRepository
	users    *repository.UserRepository
	messages *repository.MessageRepository
}

func NewChatListService(db database.DBTX) *ChatListService {
	return &ChatListService{
		chats:    repository.NewChatRepository(db),
		users:    repository.NewUserRepository(db),
		messages: repository.NewMessageRepository(db),
	}
}

// LastMessage is the summary of a conversation's most recent message.
type LastMessage struct {
	ID        int64
	Content   string
	UserID    int16
	CreatedAt time.Time
	FileName  *string
	IsDeleted bool
}

// ChatSummary is one row of the chat list. For direct chats Title carries
// the peer's display name and PeerID the peer's id; group chats keep their
// stored title.
type ChatSummary struct {
	ID                    int64
	Title                 string
	IsGroup               bool
	OwnerID               int16
	FileID                *int64
	PeerID                *int16
	MemberIDs             []int16
	LastMessage           *LastMessage
	FirstUnseenMessageID  *int64
	FirstUnseenFromThread bool
}

type ChatListResult struct {
	Chats []ChatSummary
	Total int64
}

type ChatListInput struct {
	Start   int64
	Step    int64
	ScopeID *int64
}

// List runs the aggregation in stages: membership scan, member fetch, title
// resolution, last-message join, unseen search with thread fallback. The
// merge itself is pure so each stage's output stays inspectable.
func (s *ChatListService) List(ctx context.Context, viewerID int16, in ChatListInput) (ChatListResult, error) {
	rows, err := s.chats.ListForViewer(ctx, viewerID, in.Start, in.Step, in.ScopeID)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}
	total, err := s.chats.CountForViewer(ctx, viewerID, in.ScopeID)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}
	if len(rows) == 0 {
		return ChatListResult{Total: total}, nil
	}

	chatIDs := make([]int64, len(rows))
	for i, row := range rows {
		chatIDs[i] = row.ID
	}

	members, err := s.chats.ListMembers(ctx, chatIDs)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}

	peers := directPeers(rows, members, viewerID)
	var peerIDs []int16
	for _, id := range peers {
		peerIDs = append(peerIDs, id)
	}
	names, err := s.users.GetNames(ctx, peerIDs)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}

	lastRows, err := s.messages.LastMainByChat(ctx, chatIDs)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}

	unseenMain, err := s.messages.FirstUnseenMainByChat(ctx, chatIDs, viewerID)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}
	// Chats whose main timeline is fully seen may still hold unseen thread
	// messages; search again without the timeline restriction.
	var fallbackIDs []int64
	for _, id := range chatIDs {
		if _, ok := unseenMain[id]; !ok {
			fallbackIDs = append(fallbackIDs, id)
		}
	}
	unseenAny, err := s.messages.FirstUnseenAnyByChat(ctx, fallbackIDs, viewerID)
	if err != nil {
		return ChatListResult{}, chat.StoreError(err)
	}

	summaries := buildChatSummaries(rows, members, peers, names, lastRows, unseenMain, unseenAny, viewerID)
	return ChatListResult{Chats: summaries, Total: total}, nil
}

// directPeers maps each direct chat to the participant who is not the
// viewer, regardless of which side created the chat.
func directPeers(rows []repository.ChatListRow, members map[int64][]int16, viewerID int16) map[int64]int16 {
	peers := make(map[int64]int16)
	for _, row := range rows {
		if row.IsGroup {
			continue
		}
		if row.OwnerID != viewerID {
			peers[row.ID] = row.OwnerID
			continue
		}
		if ms := members[row.ID]; len(ms) > 0 {
			peers[row.ID] = ms[0]
		}
	}
	return peers
}

func buildChatSummaries(
	rows []repository.ChatListRow,
	members map[int64][]int16,
	peers map[int64]int16,
	names map[int16]string,
	lastRows []repository.LastMessageRow,
	unseenMain, unseenAny map[int64]int64,
	viewerID int16,
) []ChatSummary {
	lastByChat := make(map[int64]repository.LastMessageRow, len(lastRows))
	for _, row := range lastRows {
		lastByChat[row.Key] = row
	}

	summaries := make([]ChatSummary, 0, len(rows))
	for _, row := range rows {
		summary := ChatSummary{
			ID:        row.ID,
			IsGroup:   row.IsGroup,
			OwnerID:   row.OwnerID,
			FileID:    row.FileID,
			MemberIDs: members[row.ID],
		}

		if row.IsGroup {
			if row.Title != nil {
				summary.Title = *row.Title
			}
		} else if peerID, ok := peers[row.ID]; ok {
			peer := peerID
			summary.PeerID = &peer
			summary.Title = names[peerID]
			// Direct chats always read from the viewer's side: the viewer
			// owns the summary and the peer is its single member, whichever
			// participant created the row.
			summary.OwnerID = viewerID
			summary.MemberIDs = []int16{peer}
		}

		if last, ok := lastByChat[row.ID]; ok {
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

		if id, ok := unseenMain[row.ID]; ok {
			unseen := id
			summary.FirstUnseenMessageID = &unseen
		} else if id, ok := unseenAny[row.ID]; ok {
			unseen := id
			summary.FirstUnseenMessageID = &unseen
			summary.FirstUnseenFromThread = true
		}

		summaries = append(summaries, summary)
	}
	return summaries
}
