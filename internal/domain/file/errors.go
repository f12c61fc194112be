package file

import (
	"github.com/NarmCo/chatroom/internal/domain/history"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
)

var (
	ErrParseFile = chatroom_errors.New(history.FeatureFile, 101)
	ErrParseID   = chatroom_errors.New(history.FeatureFile, 102)

	ErrInvalidFileType = chatroom_errors.New(history.FeatureFile, 201)
	ErrInvalidID       = chatroom_errors.New(history.FeatureFile, 202)

	ErrNotFound = chatroom_errors.New(history.FeatureFile, 301)
)

func StoreError(err error) error {
	return chatroom_errors.Store(history.FeatureFile, err)
}
