package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/NarmCo/chatroom/internal/domain/chat"
	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
)

type ChatHandler struct {
	orc *server.Orchestrator
}

func NewChatHandler(orc *server.Orchestrator) *ChatHandler {
	return &ChatHandler{orc: orc}
}

func (h *ChatHandler) Register(r gin.IRoutes) {
	r.POST("/chats", h.Add)
	r.PATCH("/chats", h.Edit)
	r.DELETE("/chats/:id", h.Remove)
	r.GET("/chats", h.Get)
}

func (h *ChatHandler) Add(c *gin.Context) {
	var req httpdto.ChatAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, chat.ErrParseTitle)
		return
	}
	if req.IsGroup == nil {
		h.orc.Fail(c, chat.ErrParseIsGroup)
		return
	}
	if len(req.UserIDs) == 0 {
		h.orc.Fail(c, chat.ErrParseUserIDs)
		return
	}
	in := services.ChatAddInput{
		Title:   req.Title,
		UserIDs: req.UserIDs,
		IsGroup: *req.IsGroup,
		FileID:  req.FileID,
	}

	h.orc.Run(c, history.FeatureChat, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		id, rows, err := services.NewChatService(tx).Add(ctx, actorID, in, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return httpdto.IDResponse{ID: id}, rows, nil
	})
}

func (h *ChatHandler) Edit(c *gin.Context) {
	var req httpdto.ChatEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, chat.ErrParseID)
		return
	}
	if req.ID == nil {
		h.orc.Fail(c, chat.ErrParseID)
		return
	}
	in := services.ChatEditInput{
		ID:            *req.ID,
		Title:         req.Title,
		AddUserIDs:    req.AddUserIDs,
		RemoveUserIDs: req.RemoveUserIDs,
		FileID:        req.FileID,
	}

	h.orc.Run(c, history.FeatureChat, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewChatService(tx).Edit(ctx, actorID, in, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

func (h *ChatHandler) Remove(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		h.orc.Fail(c, chat.ErrParseID)
		return
	}

	h.orc.Run(c, history.FeatureChat, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewChatService(tx).Remove(ctx, actorID, id)
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

// Get serves the aggregated chat list.
func (h *ChatHandler) Get(c *gin.Context) {
	start, ok := queryInt64(c, "start", 0)
	if !ok {
		h.orc.Fail(c, chat.ErrParseStart)
		return
	}
	step, ok := queryInt64(c, "step", -1)
	if !ok {
		h.orc.Fail(c, chat.ErrParseStep)
		return
	}
	scopeID, ok := queryOptID(c, "id")
	if !ok {
		h.orc.Fail(c, chat.ErrParseID)
		return
	}
	in := services.ChatListInput{Start: start, Step: step, ScopeID: scopeID}

	h.orc.Run(c, history.FeatureChat, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		res, err := services.NewChatListService(tx).List(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return toChatListResponse(res), nil, nil
	})
}

func toChatListResponse(res services.ChatListResult) httpdto.ChatListResponse {
	chats := make([]httpdto.ChatSummaryResponse, 0, len(res.Chats))
	for _, s := range res.Chats {
		chats = append(chats, httpdto.ChatSummaryResponse{
			ID:                    s.ID,
			Title:                 s.Title,
			IsGroup:               s.IsGroup,
			OwnerID:               s.OwnerID,
			FileID:                s.FileID,
			PeerID:                s.PeerID,
			MemberIDs:             s.MemberIDs,
			LastMessage:           toLastMessageResponse(s.LastMessage),
			FirstUnseenMessageID:  s.FirstUnseenMessageID,
			FirstUnseenFromThread: s.FirstUnseenFromThread,
		})
	}
	return httpdto.ChatListResponse{Chats: chats, Total: res.Total}
}

func toLastMessageResponse(m *services.LastMessage) *httpdto.LastMessageResponse {
	if m == nil {
		return nil
	}
	return &httpdto.LastMessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		FileName:  m.FileName,
		IsDeleted: m.IsDeleted,
	}
}
