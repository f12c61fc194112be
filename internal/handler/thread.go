package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/thread"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
)

type ThreadHandler struct {
	orc *server.Orchestrator
}

func NewThreadHandler(orc *server.Orchestrator) *ThreadHandler {
	return &ThreadHandler{orc: orc}
}

func (h *ThreadHandler) Register(r gin.IRoutes) {
	r.POST("/threads", h.Add)
	r.PATCH("/threads", h.Edit)
	r.DELETE("/threads/:id", h.Remove)
	r.GET("/threads", h.Get)
}

func (h *ThreadHandler) Add(c *gin.Context) {
	var req httpdto.ThreadAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, thread.ErrParseTitle)
		return
	}
	if req.Title == nil {
		h.orc.Fail(c, thread.ErrParseTitle)
		return
	}
	if req.ChatID == nil {
		h.orc.Fail(c, thread.ErrParseChatID)
		return
	}
	in := services.ThreadAddInput{Title: *req.Title, ChatID: *req.ChatID}

	h.orc.Run(c, history.FeatureThread, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		id, rows, err := services.NewThreadService(tx).Add(ctx, actorID, in, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return httpdto.IDResponse{ID: id}, rows, nil
	})
}

func (h *ThreadHandler) Edit(c *gin.Context) {
	var req httpdto.ThreadEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, thread.ErrParseID)
		return
	}
	if req.ID == nil {
		h.orc.Fail(c, thread.ErrParseID)
		return
	}
	if req.Title == nil {
		h.orc.Fail(c, thread.ErrParseTitle)
		return
	}
	in := services.ThreadEditInput{ID: *req.ID, Title: *req.Title}

	h.orc.Run(c, history.FeatureThread, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewThreadService(tx).Edit(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

func (h *ThreadHandler) Remove(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		h.orc.Fail(c, thread.ErrParseID)
		return
	}

	h.orc.Run(c, history.FeatureThread, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewThreadService(tx).Remove(ctx, actorID, id)
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

// Get serves the aggregated thread list of one chat.
func (h *ThreadHandler) Get(c *gin.Context) {
	chatID, ok := queryOptID(c, "chatID")
	if !ok || chatID == nil {
		h.orc.Fail(c, thread.ErrParseChatID)
		return
	}
	start, ok := queryInt64(c, "start", 0)
	if !ok {
		h.orc.Fail(c, thread.ErrParseStart)
		return
	}
	step, ok := queryInt64(c, "step", -1)
	if !ok {
		h.orc.Fail(c, thread.ErrParseStep)
		return
	}
	scopeID, ok := queryOptID(c, "id")
	if !ok {
		h.orc.Fail(c, thread.ErrParseID)
		return
	}
	in := services.ThreadListInput{ChatID: *chatID, Start: start, Step: step, ScopeID: scopeID}

	h.orc.Run(c, history.FeatureThread, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		res, err := services.NewThreadListService(tx).List(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		threads := make([]httpdto.ThreadSummaryResponse, 0, len(res.Threads))
		for _, s := range res.Threads {
			threads = append(threads, httpdto.ThreadSummaryResponse{
				ID:                   s.ID,
				Title:                s.Title,
				OwnerID:              s.OwnerID,
				LastMessage:          toLastMessageResponse(s.LastMessage),
				FirstUnseenMessageID: s.FirstUnseenMessageID,
			})
		}
		return httpdto.ThreadListResponse{Threads: threads, Total: res.Total}, nil, nil
	})
}
