package httpdto

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type UserAddRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	IsAdmin  *bool   `json:"isAdmin"`
	FileID   *int64  `json:"fileID"`
}

type UserEditRequest struct {
	ID       *int16  `json:"id"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	FileID   *int64  `json:"fileID"`
}

type ChatAddRequest struct {
	Title   *string `json:"title"`
	UserIDs []int16 `json:"userIDs"`
	IsGroup *bool   `json:"isGroup"`
	FileID  *int64  `json:"fileID"`
}

type ChatEditRequest struct {
	ID            *int64  `json:"id"`
	Title         *string `json:"title"`
	AddUserIDs    []int16 `json:"addUserIDs"`
	RemoveUserIDs []int16 `json:"removeUserIDs"`
	FileID        *int64  `json:"fileID"`
}

type ThreadAddRequest struct {
	Title  *string `json:"title"`
	ChatID *int64  `json:"chatID"`
}

type ThreadEditRequest struct {
	ID    *int64  `json:"id"`
	Title *string `json:"title"`
}

type MessageAddRequest struct {
	ChatID    *int64  `json:"chatID"`
	ThreadID  *int64  `json:"threadID"`
	Content   *string `json:"content"`
	ReplyID   *int64  `json:"replyID"`
	ForwardID *int64  `json:"forwardID"`
	FileID    *int64  `json:"fileID"`
}

type MessageEditRequest struct {
	ID      *int64  `json:"id"`
	Content *string `json:"content"`
}

type SeenRequest struct {
	ChatID   *int64 `json:"chatID"`
	ThreadID *int64 `json:"threadID"`
}
