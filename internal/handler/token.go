package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/token"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
	"github.com/NarmCo/chatroom/pkg/logger"
)

type TokenHandler struct {
	orc *server.Orchestrator
	log *logger.Logger
}

func NewTokenHandler(orc *server.Orchestrator, log *logger.Logger) *TokenHandler {
	return &TokenHandler{orc: orc, log: log}
}

func (h *TokenHandler) Register(r gin.IRoutes) {
	r.POST("/tokens", h.Login)
	r.PUT("/tokens", h.Extend)
	r.DELETE("/tokens", h.Logout)
	r.GET("/tokens", h.WhoAmI)
}

func (h *TokenHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.orc.Fail(c, token.ErrParseSecret)
		return
	}
	in := services.LoginInput{}
	if req.Username != nil {
		in.Username = *req.Username
	}
	if req.Password != nil {
		in.Password = *req.Password
	}

	h.orc.Run(c, history.FeatureToken, true, func(ctx context.Context, tx pgx.Tx, _ int16) (any, []history.Row, error) {
		res, rows, err := services.NewTokenService(tx).Login(ctx, in, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		// The cache is filled lazily on the first verified request, never
		// here. A write before commit could outlive a rolled-back token.
		return httpdto.LoginResponse{Secret: res.Secret, ExpireAt: res.ExpireAt}, rows, nil
	})
}

func (h *TokenHandler) Extend(c *gin.Context) {
	secret := c.GetHeader(server.SecretHeader)
	h.orc.Run(c, history.FeatureToken, true, func(ctx context.Context, tx pgx.Tx, _ int16) (any, []history.Row, error) {
		res, rows, err := services.NewTokenService(tx).Extend(ctx, secret, nowUTC())
		if err != nil {
			return nil, nil, err
		}
		return httpdto.ExtendResponse{ExpireAt: res.ExpireAt}, rows, nil
	})
}

func (h *TokenHandler) Logout(c *gin.Context) {
	secret := c.GetHeader(server.SecretHeader)
	h.orc.Run(c, history.FeatureToken, true, func(ctx context.Context, tx pgx.Tx, _ int16) (any, []history.Row, error) {
		rows, err := services.NewTokenService(tx).Logout(ctx, secret)
		if err != nil {
			return nil, nil, err
		}
		if err := h.orc.Sessions().Delete(ctx, secret); err != nil {
			h.log.ErrorCtx(ctx, "session cache delete failed", zap.Error(err))
		}
		return nil, rows, nil
	})
}

func (h *TokenHandler) WhoAmI(c *gin.Context) {
	h.orc.Run(c, history.FeatureToken, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		u, err := services.NewTokenService(tx).WhoAmI(ctx, actorID)
		if err != nil {
			return nil, nil, err
		}
		return httpdto.UserResponse{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			Phone:    u.Phone,
			IsAdmin:  u.IsAdmin,
			FileID:   u.FileID,
		}, nil, nil
	})
}
