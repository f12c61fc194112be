package chat

import "time"

const TitleMinLength = 2

type Chat struct {
	ID                int64
	Title             *string // nil for direct chats, resolved from the other participant
	OwnerID           int16
	MemberIDs         []int16 // direct chats hold exactly one non-owner member
	IsGroup           bool
	LastMessageSentAt time.Time
	FileID            *int64
}

const (
	OperationAdd         = "add"
	OperationRemove      = "remove"
	OperationEditTitle   = "edit_title"
	OperationEditUserIDs = "edit_user_ids"
	OperationEditFileID  = "edit_file_id"
)

func ValidateID(id int64) bool {
	return id > 0
}

func ValidateTitle(v string) bool {
	return len(v) >= TitleMinLength
}
