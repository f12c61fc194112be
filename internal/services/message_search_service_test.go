package services

import (
	"testing"

	"github.com/NarmCo/chatroom/internal/repository"
)

func TestAnnotateSearchMatches(t *testing.T) {
	groupFile := int64(4)
	peerFile := int64(9)
	matches := []SearchMatch{
		{ID: 100, ChatID: 10},
		{ID: 101, ChatID: 11},
		{ID: 102, ChatID: 10, ThreadID: i64Ptr(77)},
	}
	chatRows := []repository.ChatListRow{
		{ID: 10, IsGroup: true, OwnerID: 1, Title: strPtr("team"), FileID: &groupFile},
		{ID: 11, IsGroup: false, OwnerID: 3},
	}
	peers := map[int64]int16{11: 3}
	displays := map[int16]repository.UserDisplay{
		3: {Name: "sam", FileID: &peerFile},
	}
	threadTitles := map[int64]string{77: "release"}

	annotateSearchMatches(matches, chatRows, peers, displays, threadTitles)

	if matches[0].ChatTitle == nil || *matches[0].ChatTitle != "team" {
		t.Errorf("group hit title = %v, want team", matches[0].ChatTitle)
	}
	if !matches[0].ChatIsGroup || matches[0].ChatFileID == nil || *matches[0].ChatFileID != groupFile {
		t.Error("group hit should carry the chat's flag and image")
	}
	if matches[1].ChatTitle == nil || *matches[1].ChatTitle != "sam" {
		t.Errorf("direct hit title = %v, want the peer name", matches[1].ChatTitle)
	}
	if matches[1].ChatIsGroup {
		t.Error("direct hit should not be marked as a group")
	}
	if matches[1].ChatFileID == nil || *matches[1].ChatFileID != peerFile {
		t.Error("direct hit should carry the peer's avatar")
	}
	if matches[2].ChatTitle == nil || *matches[2].ChatTitle != "team # release" {
		t.Errorf("thread hit title = %v, want team # release", matches[2].ChatTitle)
	}
}
