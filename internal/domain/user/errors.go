package user

import (
	"github.com/NarmCo/chatroom/internal/domain/history"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
)

var (
	ErrParseUsername = chatroom_errors.New(history.FeatureUser, 101)
	ErrParsePassword = chatroom_errors.New(history.FeatureUser, 102)
	ErrParseName     = chatroom_errors.New(history.FeatureUser, 103)
	ErrParseFileID   = chatroom_errors.New(history.FeatureUser, 104)
	ErrParsePhone    = chatroom_errors.New(history.FeatureUser, 105)
	ErrParseID       = chatroom_errors.New(history.FeatureUser, 106)

	ErrInvalidID       = chatroom_errors.New(history.FeatureUser, 201)
	ErrInvalidUsername = chatroom_errors.New(history.FeatureUser, 202)
	ErrInvalidPassword = chatroom_errors.New(history.FeatureUser, 203)
	ErrInvalidName     = chatroom_errors.New(history.FeatureUser, 204)
	ErrInvalidFileID   = chatroom_errors.New(history.FeatureUser, 205)
	ErrInvalidPhone    = chatroom_errors.New(history.FeatureUser, 206)
	ErrNoChanges       = chatroom_errors.New(history.FeatureUser, 207)

	ErrPermissionDenied = chatroom_errors.New(history.FeatureUser, 301)
	ErrNotFound         = chatroom_errors.New(history.FeatureUser, 306)
)

func StoreError(err error) error {
	return chatroom_errors.Store(history.FeatureUser, err)
}
