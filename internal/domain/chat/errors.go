package chat

import (
	"github.com/NarmCo/chatroom/internal/domain/history"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
)

var (
	ErrParseTitle   = chatroom_errors.New(history.FeatureChat, 101)
	ErrParseUserIDs = chatroom_errors.New(history.FeatureChat, 102)
	ErrParseIsGroup = chatroom_errors.New(history.FeatureChat, 103)
	ErrParseID      = chatroom_errors.New(history.FeatureChat, 104)
	ErrParseStart   = chatroom_errors.New(history.FeatureChat, 105)
	ErrParseStep    = chatroom_errors.New(history.FeatureChat, 106)

	ErrInvalidTitle      = chatroom_errors.New(history.FeatureChat, 201)
	ErrInvalidUserID     = chatroom_errors.New(history.FeatureChat, 202)
	ErrInvalidIsGroup    = chatroom_errors.New(history.FeatureChat, 203)
	ErrInvalidID         = chatroom_errors.New(history.FeatureChat, 204)
	ErrMultiUserDirect   = chatroom_errors.New(history.FeatureChat, 205)
	ErrOwnerInUserIDs    = chatroom_errors.New(history.FeatureChat, 206)
	ErrDirectWithFile    = chatroom_errors.New(history.FeatureChat, 207)
	ErrInvalidFileID     = chatroom_errors.New(history.FeatureChat, 208)

	ErrNotFound        = chatroom_errors.New(history.FeatureChat, 301)
	ErrDirectImmutable = chatroom_errors.New(history.FeatureChat, 302)
	ErrAlreadyMember   = chatroom_errors.New(history.FeatureChat, 303)
	ErrNotMember       = chatroom_errors.New(history.FeatureChat, 304)
	ErrFileNotFound    = chatroom_errors.New(history.FeatureChat, 305)
)

func StoreError(err error) error {
	return chatroom_errors.Store(history.FeatureChat, err)
}
