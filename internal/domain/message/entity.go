package message

import (
	"time"
	"unicode/utf8"
)

const (
	ContentMaxLength = 5000

	// EditWindow bounds how long the author may edit or delete a message.
	EditWindow = 2 * time.Minute

	// DeletedContent replaces the text of soft-deleted messages on reads.
	DeletedContent = "this message was deleted"

	// DefaultFileID is the placeholder avatar referenced by new users and
	// group chats without an explicit image.
	DefaultFileID int64 = 1
)

type Message struct {
	ID        int64
	Content   string
	ChatID    int64
	ThreadID  *int64 // nil: main chat timeline
	Reply     *Reply
	Forward   *Forward
	UserID    int16
	FileID    *int64
	FileName  *string
	FileSize  *int64
	IsEdited  bool
	IsDeleted bool
	CreatedAt time.Time
}

// Reply snapshots the replied-to message at time of reply.
type Reply struct {
	MessageID int64  `json:"messageID"`
	Content   string `json:"messageContent"`
	UserID    int16  `json:"userID"`
}

// Forward records the provenance of a forwarded message.
type Forward struct {
	FromMessageID   int64     `json:"forwarded_from_message"`
	FromChatID      int64     `json:"forwarded_from_chat"`
	FromChatIsGroup bool      `json:"is_forwarded_from_chat_group"`
	FromUserID      int16     `json:"forwarded_from_user"`
	FromThreadID    *int64    `json:"forwarded_from_thread"`
	ForwardedAt     time.Time `json:"forwarded_created_at"`
}

const (
	OperationAdd                       = "add"
	OperationSeen                      = "seen"
	OperationEditChatLastMessageSentAt = "edit_chat_last_message_sent_at"
	OperationEditThreadLastMessageSent = "edit_thread_last_message_sent_at"
	OperationEditContent               = "edit_message_content"
	OperationEditIsEdited              = "edit_message_is_edited"
	OperationEditIsDeleted             = "edit_message_is_deleted"
)

func ValidateID(id int64) bool {
	return id > 0
}

// ValidateContent bounds content by character count, not bytes, so
// multibyte text gets the full length.
func ValidateContent(v string) bool {
	n := utf8.RuneCountInString(v)
	return n > 0 && n <= ContentMaxLength
}

// Editable reports whether a message created at createdAt may still be
// edited or deleted at now. Forward checks are the caller's concern.
func Editable(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= EditWindow
}
