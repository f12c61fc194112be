package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NarmCo/chatroom/internal/middleware"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/storage"
	"github.com/NarmCo/chatroom/pkg/logger"
)

// NewRouter assembles the gin engine with all feature routes.
func NewRouter(orc *server.Orchestrator, pool *pgxpool.Pool, backend storage.Backend, log *logger.Logger, mode string) *gin.Engine {
	if mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.BodyCapture(), middleware.Logging(log))

	NewTokenHandler(orc, log).Register(r)
	NewUserHandler(orc).Register(r)
	NewChatHandler(orc).Register(r)
	NewThreadHandler(orc).Register(r)
	NewMessageHandler(orc).Register(r)
	NewFileHandler(orc, pool, backend, log).Register(r)
	NewHistoryHandler(orc).Register(r)

	return r
}
