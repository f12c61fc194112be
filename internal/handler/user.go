package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/user"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
)

type UserHandler struct {
	orc *server.Orchestrator
}

func NewUserHandler(orc *server.Orchestrator) *UserHandler {
	return &UserHandler{orc: orc}
}

func (h *UserHandler) Register(r gin.IRoutes) {
	r.POST("/users", h.Add)
	r.PATCH("/users", h.Edit)
	r.DELETE("/users/:id", h.Remove)
	r.GET("/users", h.Get)
}

func (h *UserHandler) Add(c *gin.Context) {
	var req httpdto.UserAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, user.ErrParseUsername)
		return
	}
	if req.Username == nil {
		h.orc.Fail(c, user.ErrParseUsername)
		return
	}
	if req.Password == nil {
		h.orc.Fail(c, user.ErrParsePassword)
		return
	}
	if req.Name == nil {
		h.orc.Fail(c, user.ErrParseName)
		return
	}
	if req.Phone == nil {
		h.orc.Fail(c, user.ErrParsePhone)
		return
	}
	in := services.UserAddInput{
		Username: *req.Username,
		Password: *req.Password,
		Name:     *req.Name,
		Phone:    *req.Phone,
		FileID:   req.FileID,
	}
	if req.IsAdmin != nil {
		in.IsAdmin = *req.IsAdmin
	}

	h.orc.Run(c, history.FeatureUser, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		id, rows, err := services.NewUserService(tx).Add(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return httpdto.IDResponse{ID: int64(id)}, rows, nil
	})
}

func (h *UserHandler) Edit(c *gin.Context) {
	var req httpdto.UserEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, user.ErrParseUsername)
		return
	}
	in := services.UserEditInput{
		ID:       req.ID,
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		FileID:   req.FileID,
	}

	h.orc.Run(c, history.FeatureUser, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewUserService(tx).Edit(ctx, actorID, in)
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

func (h *UserHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 16)
	if err != nil {
		h.orc.Fail(c, user.ErrParseID)
		return
	}
	targetID := int16(id)

	h.orc.Run(c, history.FeatureUser, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		rows, err := services.NewUserService(tx).Remove(ctx, actorID, targetID)
		if err != nil {
			return nil, nil, err
		}
		return nil, rows, nil
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	start, ok := queryInt64(c, "start", 0)
	if !ok {
		h.orc.Fail(c, user.ErrParseID)
		return
	}
	step, ok := queryInt64(c, "step", -1)
	if !ok {
		h.orc.Fail(c, user.ErrParseID)
		return
	}

	h.orc.Run(c, history.FeatureUser, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		res, err := services.NewUserService(tx).Get(ctx, start, step)
		if err != nil {
			return nil, nil, err
		}
		users := make([]httpdto.UserResponse, 0, len(res.Users))
		for _, u := range res.Users {
			users = append(users, httpdto.UserResponse{
				ID:       u.ID,
				Username: u.Username,
				Name:     u.Name,
				Phone:    u.Phone,
				IsAdmin:  u.IsAdmin,
				FileID:   u.FileID,
			})
		}
		return httpdto.UserListResponse{Users: users, Total: res.Total}, nil, nil
	})
}
