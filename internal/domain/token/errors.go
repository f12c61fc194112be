package token

import (
	"github.com/NarmCo/chatroom/internal/domain/history"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
)

var (
	ErrParseSecret = chatroom_errors.New(history.FeatureToken, 101)

	ErrInvalidUsername = chatroom_errors.New(history.FeatureToken, 201)
	ErrInvalidPassword = chatroom_errors.New(history.FeatureToken, 202)
	ErrInvalidSecret   = chatroom_errors.New(history.FeatureToken, 203)

	ErrUsernameNotFound  = chatroom_errors.New(history.FeatureToken, 301)
	ErrPasswordMismatch  = chatroom_errors.New(history.FeatureToken, 302)
	ErrMaxSessions       = chatroom_errors.New(history.FeatureToken, 305)
	ErrNotFound          = chatroom_errors.New(history.FeatureToken, 306)
	ErrExtendTooEarly    = chatroom_errors.New(history.FeatureToken, 307)
	ErrExpired           = chatroom_errors.New(history.FeatureToken, 308)
	ErrAdminOnly         = chatroom_errors.New(history.FeatureToken, 309)
)

func StoreError(err error) error {
	return chatroom_errors.Store(history.FeatureToken, err)
}
