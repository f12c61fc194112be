package httpdto

import "time"

// Response is the envelope every endpoint returns. Code carries the
// outcome: the success sentinel or a feature error code.
type Response struct {
	Feature string `json:"feature"`
	Code    int    `json:"code"`
	Data    any    `json:"data,omitempty"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type LoginResponse struct {
	Secret   string    `json:"secret"`
	ExpireAt time.Time `json:"expireAt"`
}

type ExtendResponse struct {
	ExpireAt time.Time `json:"expireAt"`
}

type UserResponse struct {
	ID       int16  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsAdmin  bool   `json:"isAdmin"`
	FileID   int64  `json:"fileID"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

type LastMessageResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int16     `json:"userID"`
	CreatedAt time.Time `json:"createdAt"`
	FileName  *string   `json:"fileName,omitempty"`
	IsDeleted bool      `json:"isDeleted"`
}

type ChatSummaryResponse struct {
	ID                    int64                `json:"id"`
	Title                 string               `json:"title"`
	IsGroup               bool                 `json:"isGroup"`
	OwnerID               int16                `json:"ownerID"`
	FileID                *int64               `json:"fileID,omitempty"`
	PeerID                *int16               `json:"peerID,omitempty"`
	MemberIDs             []int16              `json:"userIDs"`
	LastMessage           *LastMessageResponse `json:"lastMessage,omitempty"`
	FirstUnseenMessageID  *int64               `json:"firstUnseenMessageID,omitempty"`
	FirstUnseenFromThread bool                 `json:"isFirstUnseenFromThread"`
}

type ChatListResponse struct {
	Chats []ChatSummaryResponse `json:"chats"`
	Total int64                 `json:"total"`
}

type ThreadSummaryResponse struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	OwnerID              int16                `json:"ownerID"`
	LastMessage          *LastMessageResponse `json:"lastMessage,omitempty"`
	FirstUnseenMessageID *int64               `json:"firstUnseenMessageID,omitempty"`
}

type ThreadListResponse struct {
	Threads []ThreadSummaryResponse `json:"threads"`
	Total   int64                   `json:"total"`
}

type ReplyResponse struct {
	MessageID int64  `json:"messageID"`
	Content   string `json:"messageContent"`
	UserID    int16  `json:"userID"`
}

type ForwardResponse struct {
	FromMessageID   int64     `json:"forwarded_from_message"`
	FromChatID      int64     `json:"forwarded_from_chat"`
	FromChatIsGroup bool      `json:"is_forwarded_from_chat_group"`
	FromUserID      int16     `json:"forwarded_from_user"`
	FromThreadID    *int64    `json:"forwarded_from_thread"`
	ForwardedAt     time.Time `json:"forwarded_created_at"`
}

type MessageResponse struct {
	ID        int64            `json:"id"`
	Content   string           `json:"content"`
	ChatID    int64            `json:"chatID"`
	ThreadID  *int64           `json:"threadID,omitempty"`
	Reply     *ReplyResponse   `json:"reply,omitempty"`
	Forward   *ForwardResponse `json:"forward,omitempty"`
	UserID    int16            `json:"userID"`
	FileID    *int64           `json:"fileID,omitempty"`
	FileName  *string          `json:"fileName,omitempty"`
	IsEdited  bool             `json:"isEdited"`
	IsDeleted bool             `json:"isDeleted"`
	CreatedAt time.Time        `json:"createdAt"`
}

type TimelineResponse struct {
	Messages []MessageResponse `json:"messages"`
}

type SeenResponse struct {
	MessageIDs []int64 `json:"messageIDs"`
}

type SearchMatchResponse struct {
	ID          int64     `json:"id"`
	ChatID      int64     `json:"chatID"`
	ThreadID    *int64    `json:"threadID,omitempty"`
	Content     string    `json:"content"`
	UserID      int16     `json:"userID"`
	CreatedAt   time.Time `json:"createdAt"`
	FileName    *string   `json:"fileName,omitempty"`
	ChatTitle   *string   `json:"chatTitle,omitempty"`
	ChatIsGroup bool      `json:"chatIsGroup"`
	ChatFileID  *int64    `json:"chatFileID,omitempty"`
}

type SearchResponse struct {
	Messages []SearchMatchResponse `json:"messages"`
	Total    int64                 `json:"length"`
}

type HistoryResponse struct {
	ID         int64          `json:"id"`
	LogID      int64          `json:"logID"`
	UserID     *int16         `json:"userID,omitempty"`
	Feature    string         `json:"feature"`
	Table      string         `json:"table"`
	RowID      int64          `json:"rowID"`
	Operations []string       `json:"operations"`
	Data       map[string]any `json:"data,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
