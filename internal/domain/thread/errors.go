package thread

import (
	"github.com/NarmCo/chatroom/internal/domain/history"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
)

var (
	ErrParseTitle  = chatroom_errors.New(history.FeatureThread, 101)
	ErrParseChatID = chatroom_errors.New(history.FeatureThread, 102)
	ErrParseID     = chatroom_errors.New(history.FeatureThread, 104)
	ErrParseStart  = chatroom_errors.New(history.FeatureThread, 105)
	ErrParseStep   = chatroom_errors.New(history.FeatureThread, 106)

	ErrInvalidTitle  = chatroom_errors.New(history.FeatureThread, 201)
	ErrInvalidChatID = chatroom_errors.New(history.FeatureThread, 202)
	ErrInvalidID     = chatroom_errors.New(history.FeatureThread, 203)

	ErrChatNotFound = chatroom_errors.New(history.FeatureThread, 301)
	ErrNotFound     = chatroom_errors.New(history.FeatureThread, 302)
)

func StoreError(err error) error {
	return chatroom_errors.Store(history.FeatureThread, err)
}
