package message

import (
	"github.com/NarmCo/chatroom/internal/domain/history"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
)

var (
	ErrParseChatID    = chatroom_errors.New(history.FeatureMessage, 101)
	ErrParseContent   = chatroom_errors.New(history.FeatureMessage, 102)
	ErrParseThreadID  = chatroom_errors.New(history.FeatureMessage, 103)
	ErrParseMessageID = chatroom_errors.New(history.FeatureMessage, 104)
	ErrParseForwardID = chatroom_errors.New(history.FeatureMessage, 105)
	ErrParseFileID    = chatroom_errors.New(history.FeatureMessage, 106)
	ErrParseStart     = chatroom_errors.New(history.FeatureMessage, 107)
	ErrParseStep      = chatroom_errors.New(history.FeatureMessage, 108)
	ErrParseOrder     = chatroom_errors.New(history.FeatureMessage, 109)
	ErrParseSearch    = chatroom_errors.New(history.FeatureMessage, 110)

	ErrInvalidContent        = chatroom_errors.New(history.FeatureMessage, 201)
	ErrInvalidChatID         = chatroom_errors.New(history.FeatureMessage, 202)
	ErrInvalidThreadID       = chatroom_errors.New(history.FeatureMessage, 203)
	ErrInvalidReplyID        = chatroom_errors.New(history.FeatureMessage, 204)
	ErrInvalidForwardID      = chatroom_errors.New(history.FeatureMessage, 205)
	ErrInvalidFileID         = chatroom_errors.New(history.FeatureMessage, 206)
	ErrContentXorForward     = chatroom_errors.New(history.FeatureMessage, 207)
	ErrInvalidID             = chatroom_errors.New(history.FeatureMessage, 208)
	ErrInvalidOrderDirection = chatroom_errors.New(history.FeatureMessage, 209)
	ErrInvalidStep           = chatroom_errors.New(history.FeatureMessage, 210)
	ErrNoTimelineSelected    = chatroom_errors.New(history.FeatureMessage, 211)
	ErrInvalidSearch         = chatroom_errors.New(history.FeatureMessage, 212)
	ErrSearchScopeConflict   = chatroom_errors.New(history.FeatureMessage, 213)

	ErrChatNotFound    = chatroom_errors.New(history.FeatureMessage, 301)
	ErrThreadNotFound  = chatroom_errors.New(history.FeatureMessage, 302)
	ErrNotFound        = chatroom_errors.New(history.FeatureMessage, 303)
	ErrForwardNotFound = chatroom_errors.New(history.FeatureMessage, 304)
	ErrFileNotFound    = chatroom_errors.New(history.FeatureMessage, 305)
	ErrNotEditable     = chatroom_errors.New(history.FeatureMessage, 306)
	ErrNotPermitted    = chatroom_errors.New(history.FeatureMessage, 307)
)

func StoreError(err error) error {
	return chatroom_errors.Store(history.FeatureMessage, err)
}
