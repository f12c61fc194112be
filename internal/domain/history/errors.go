package history

import chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"

var (
	ErrParseTable = chatroom_errors.New(FeatureHistory, 101)
	ErrParseRowID = chatroom_errors.New(FeatureHistory, 102)
)
