package services

import (
	"testing"
	"time"

	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestDirectPeers(t *testing.T) {
	viewer := int16(1)
	rows := []repository.ChatListRow{
		{ID: 10, IsGroup: false, OwnerID: viewer},
		{ID: 11, IsGroup: false, OwnerID: 3},
		{ID: 12, IsGroup: true, OwnerID: viewer, Title: strPtr("team")},
	}
	members := map[int64][]int16{
		10: {2},
		11: {1},
		12: {2, 3},
	}

	peers := directPeers(rows, members, viewer)

	if got := peers[10]; got != 2 {
		t.Errorf("viewer-owned direct chat: peer = %d, want 2", got)
	}
	if got := peers[11]; got != 3 {
		t.Errorf("peer-owned direct chat: peer = %d, want 3", got)
	}
	if _, ok := peers[12]; ok {
		t.Error("group chat should not appear in peer map")
	}
}

func TestBuildChatSummariesTitles(t *testing.T) {
	viewer := int16(1)
	rows := []repository.ChatListRow{
		{ID: 10, IsGroup: false, OwnerID: viewer},
		{ID: 12, IsGroup: true, OwnerID: viewer, Title: strPtr("team")},
	}
	members := map[int64][]int16{10: {2}, 12: {2, 3}}
	peers := map[int64]int16{10: 2}
	names := map[int16]string{2: "morgan"}

	summaries := buildChatSummaries(rows, members, peers, names, nil, nil, nil, viewer)

	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].Title != "morgan" {
		t.Errorf("direct chat title = %q, want peer name", summaries[0].Title)
	}
	if summaries[0].PeerID == nil || *summaries[0].PeerID != 2 {
		t.Error("direct chat should carry the peer id")
	}
	if summaries[1].Title != "team" {
		t.Errorf("group chat title = %q, want stored title", summaries[1].Title)
	}
	if summaries[1].PeerID != nil {
		t.Error("group chat should not carry a peer id")
	}
}

func TestBuildChatSummariesDirectCanonical(t *testing.T) {
	viewer := int16(1)
	rows := []repository.ChatListRow{
		{ID: 20, IsGroup: false, OwnerID: 3},
		{ID: 21, IsGroup: false, OwnerID: viewer},
	}
	members := map[int64][]int16{20: {viewer}, 21: {5}}
	peers := directPeers(rows, members, viewer)
	names := map[int16]string{3: "sam", 5: "nika"}

	summaries := buildChatSummaries(rows, members, peers, names, nil, nil, nil, viewer)

	for _, s := range summaries {
		if s.OwnerID != viewer {
			t.Errorf("chat %d: owner = %d, want viewer %d", s.ID, s.OwnerID, viewer)
		}
	}
	if got := summaries[0].MemberIDs; len(got) != 1 || got[0] != 3 {
		t.Errorf("peer-created direct chat members = %v, want [3]", got)
	}
	if got := summaries[1].MemberIDs; len(got) != 1 || got[0] != 5 {
		t.Errorf("viewer-created direct chat members = %v, want [5]", got)
	}
}

func TestBuildChatSummariesLastMessage(t *testing.T) {
	viewer := int16(1)
	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []repository.ChatListRow{
		{ID: 10, IsGroup: true, OwnerID: viewer, Title: strPtr("team")},
		{ID: 11, IsGroup: true, OwnerID: viewer, Title: strPtr("empty")},
	}
	lastRows := []repository.LastMessageRow{
		{Key: 10, ID: 100, Content: "secret plans", UserID: 2, CreatedAt: sentAt, IsDeleted: true},
	}

	summaries := buildChatSummaries(rows, nil, nil, nil, lastRows, nil, nil, viewer)

	if summaries[0].LastMessage == nil {
		t.Fatal("chat with messages should carry a last message")
	}
	if summaries[0].LastMessage.Content != message.DeletedContent {
		t.Errorf("deleted last message content = %q, want placeholder", summaries[0].LastMessage.Content)
	}
	if !summaries[0].LastMessage.IsDeleted {
		t.Error("deleted flag should survive the merge")
	}
	if summaries[1].LastMessage != nil {
		t.Error("chat without messages should have no last message")
	}
}

func TestBuildChatSummariesFirstUnseen(t *testing.T) {
	viewer := int16(1)
	rows := []repository.ChatListRow{
		{ID: 10, IsGroup: true, OwnerID: viewer, Title: strPtr("a")},
		{ID: 11, IsGroup: true, OwnerID: viewer, Title: strPtr("b")},
		{ID: 12, IsGroup: true, OwnerID: viewer, Title: strPtr("c")},
	}
	unseenMain := map[int64]int64{10: 100}
	unseenAny := map[int64]int64{11: 200}

	summaries := buildChatSummaries(rows, nil, nil, nil, nil, unseenMain, unseenAny, viewer)

	if summaries[0].FirstUnseenMessageID == nil || *summaries[0].FirstUnseenMessageID != 100 {
		t.Error("main-timeline unseen id should win")
	}
	if summaries[0].FirstUnseenFromThread {
		t.Error("main-timeline unseen must not be flagged as thread")
	}
	if summaries[1].FirstUnseenMessageID == nil || *summaries[1].FirstUnseenMessageID != 200 {
		t.Error("thread fallback should fill the unseen id")
	}
	if !summaries[1].FirstUnseenFromThread {
		t.Error("thread fallback must set the thread flag")
	}
	if summaries[2].FirstUnseenMessageID != nil {
		t.Error("fully seen chat should have no unseen id")
	}
	if summaries[2].FirstUnseenFromThread {
		t.Error("fully seen chat should not set the thread flag")
	}
}

func TestBuildThreadSummaries(t *testing.T) {
	sentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []repository.ThreadListRow{
		{ID: 20, Title: "design", OwnerID: 2},
		{ID: 21, Title: "quiet", OwnerID: 3},
	}
	lastRows := []repository.LastMessageRow{
		{Key: 20, ID: 300, Content: "latest", UserID: 2, CreatedAt: sentAt},
	}
	unseen := map[int64]int64{20: 295}

	summaries := buildThreadSummaries(rows, lastRows, unseen)

	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].LastMessage == nil || summaries[0].LastMessage.ID != 300 {
		t.Error("thread last message should be attached")
	}
	if summaries[0].FirstUnseenMessageID == nil || *summaries[0].FirstUnseenMessageID != 295 {
		t.Error("thread unseen id should be attached")
	}
	if summaries[1].LastMessage != nil || summaries[1].FirstUnseenMessageID != nil {
		t.Error("thread without activity should stay empty")
	}
}
