package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
)

type MessageHandler struct {
	orc *server.Orchestrator
}

func NewMessageHandler(orc *server.Orchestrator) *MessageHandler {
	return &MessageHandler{orc: orc}
}

func (h *MessageHandler) Register(r gin.IRoutes) {
	r.POST("/messages", h.Add)
	r.PATCH("/messages", h.Edit)
	r.DELETE("/messages/:id", h.Remove)
	r.POST("/messages/seen", h.Seen)
	r.GET("/messages", h.Get)
	r.GET("/messages/search", h.Search)
}

func (h *MessageHandler) Add(c *gin.Context) {
	var req httpdto.MessageAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, message.ErrParseChatID)
		return
	}
	if req.ChatID == nil {
		h.orc.Fail(c, message.ErrParseChatID)
		return
	}
	in := services.MessageAddInput{
		ChatID:    *req.ChatID,
		ThreadID:  req.ThreadID,
		Content:   req.Content,
		ReplyID:   req.ReplyID,
		ForwardID: req.ForwardID,
		FileID:    req.FileID,
	}

	h.orc.Run(c, history.FeatureMessage, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		id, rows, err := services.NewMessageService(tx).Add(ctx, actorID, in, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return httpdto.IDResponse{ID: id}, rows, nil
	})
}

func (h *MessageHandler) Edit(c *gin.Context) {
	var req httpdto.MessageEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, message.ErrParseMessageID)
		return
	}
	if req.ID == nil {
		h.orc.Fail(c, message.ErrParseMessageID)
		return
	}
	if req.Content == nil {
		h.orc.Fail(c, message.ErrParseContent)
		return
	}
	in := services.MessageEditInput{ID: *req.ID, Content: *req.Content}

	h.orc.Run(c, history.FeatureMessage, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewMessageService(tx).Edit(ctx, actorID, in, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

func (h *MessageHandler) Remove(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		h.orc.Fail(c, message.ErrParseMessageID)
		return
	}

	h.orc.Run(c, history.FeatureMessage, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewMessageService(tx).Remove(ctx, actorID, id, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

func (h *MessageHandler) Seen(c *gin.Context) {
	var req httpdto.SeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, message.ErrParseChatID)
		return
	}
	in := services.MessageSeenInput{ChatID: req.ChatID, ThreadID: req.ThreadID}

	h.orc.Run(c, history.FeatureMessage, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		ids, rows, err := services.NewMessageService(tx).Seen(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return httpdto.SeenResponse{MessageIDs: ids}, rows, nil
	})
}

// Get pages one chat or thread timeline around an anchor message.
func (h *MessageHandler) Get(c *gin.Context) {
	chatID, ok := queryOptID(c, "chatID")
	if !ok || chatID == nil {
		h.orc.Fail(c, message.ErrParseChatID)
		return
	}
	threadID, ok := queryOptID(c, "threadID")
	if !ok {
		h.orc.Fail(c, message.ErrParseThreadID)
		return
	}
	anchorID, ok := queryOptID(c, "messageID")
	if !ok {
		h.orc.Fail(c, message.ErrParseMessageID)
		return
	}
	step, ok := queryInt64(c, "step", services.TimelineStepMax)
	if !ok {
		h.orc.Fail(c, message.ErrParseStep)
		return
	}
	order := c.DefaultQuery("order", "desc")
	if order != "asc" && order != "desc" {
		h.orc.Fail(c, message.ErrParseOrder)
		return
	}
	in := services.TimelineInput{
		ChatID:    *chatID,
		ThreadID:  threadID,
		AnchorID:  anchorID,
		Ascending: order == "asc",
		Step:      step,
	}

	h.orc.Run(c, history.FeatureMessage, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewMessageService(tx).Timeline(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return toTimelineResponse(rows), nil, nil
	})
}

// Search finds messages by content or file name, either inside one chat or
// thread or across every conversation the caller belongs to.
func (h *MessageHandler) Search(c *gin.Context) {
	term := c.Query("search")
	if term == "" {
		h.orc.Fail(c, message.ErrParseSearch)
		return
	}
	chatID, ok := queryOptID(c, "chatID")
	if !ok {
		h.orc.Fail(c, message.ErrParseChatID)
		return
	}
	threadID, ok := queryOptID(c, "threadID")
	if !ok {
		h.orc.Fail(c, message.ErrParseThreadID)
		return
	}
	start, ok := queryInt64(c, "start", 0)
	if !ok {
		h.orc.Fail(c, message.ErrParseStart)
		return
	}
	step, ok := queryInt64(c, "step", -1)
	if !ok {
		h.orc.Fail(c, message.ErrParseStep)
		return
	}
	in := services.MessageSearchInput{
		Term:     term,
		ChatID:   chatID,
		ThreadID: threadID,
		Start:    start,
		Step:     step,
	}

	h.orc.Run(c, history.FeatureMessage, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		res, err := services.NewMessageSearchService(tx).Search(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return toSearchResponse(res), nil, nil
	})
}

func toSearchResponse(res services.MessageSearchResult) httpdto.SearchResponse {
	matches := make([]httpdto.SearchMatchResponse, 0, len(res.Messages))
	for _, m := range res.Messages {
		matches = append(matches, httpdto.SearchMatchResponse{
			ID:          m.ID,
			ChatID:      m.ChatID,
			ThreadID:    m.ThreadID,
			Content:     m.Content,
			UserID:      m.UserID,
			CreatedAt:   m.CreatedAt,
			FileName:    m.FileName,
			ChatTitle:   m.ChatTitle,
			ChatIsGroup: m.ChatIsGroup,
			ChatFileID:  m.ChatFileID,
		})
	}
	return httpdto.SearchResponse{Messages: matches, Total: res.Total}
}

func toTimelineResponse(rows []repository.MessageRow) httpdto.TimelineResponse {
	messages := make([]httpdto.MessageResponse, 0, len(rows))
	for _, row := range rows {
		m := httpdto.MessageResponse{
			ID:        row.ID,
			Content:   row.Content,
			ChatID:    row.ChatID,
			ThreadID:  row.ThreadID,
			UserID:    row.UserID,
			FileID:    row.FileID,
			FileName:  row.FileName,
			IsEdited:  row.IsEdited,
			IsDeleted: row.IsDeleted,
			CreatedAt: row.CreatedAt,
		}
		if row.Reply != nil {
			m.Reply = &httpdto.ReplyResponse{
				MessageID: row.Reply.MessageID,
				Content:   row.Reply.Content,
				UserID:    row.Reply.UserID,
			}
		}
		if row.Forward != nil {
			m.Forward = &httpdto.ForwardResponse{
				FromMessageID:   row.Forward.FromMessageID,
				FromChatID:      row.Forward.FromChatID,
				FromChatIsGroup: row.Forward.FromChatIsGroup,
				FromUserID:      row.Forward.FromUserID,
				FromThreadID:    row.Forward.FromThreadID,
				ForwardedAt:     row.Forward.ForwardedAt,
			}
		}
		messages = append(messages, m)
	}
	return httpdto.TimelineResponse{Messages: messages}
}
