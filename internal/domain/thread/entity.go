package thread

import "time"

const TitleMinLength = 2

// Thread is a sub-conversation scoped to one chat. ChatOwnerID is
// denormalized so permission checks need a single read.
type Thread struct {
	ID                int64
	Title             string
	ChatID            int64
	ThreadOwnerID     int16
	ChatOwnerID       int16
	LastMessageSentAt time.Time
}

const (
	OperationAdd       = "add"
	OperationRemove    = "remove"
	OperationEditTitle = "edit_title"
)

func ValidateID(id int64) bool {
	return id > 0
}

func ValidateTitle(v string) bool {
	return len(v) >= TitleMinLength
}
