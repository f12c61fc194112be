package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/NarmCo/chatroom/internal/domain/file"
	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/storage"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
	"github.com/NarmCo/chatroom/pkg/logger"
)

type FileHandler struct {
	orc     *server.Orchestrator
	pool    *pgxpool.Pool
	backend storage.Backend
	log     *logger.Logger
}

func NewFileHandler(orc *server.Orchestrator, pool *pgxpool.Pool, backend storage.Backend, log *logger.Logger) *FileHandler {
	return &FileHandler{orc: orc, pool: pool, backend: backend, log: log}
}

func (h *FileHandler) Register(r gin.IRoutes) {
	r.POST("/files", h.Upload)
	r.GET("/files/:id", h.Download)
}

func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.orc.Fail(c, file.ErrParseFile)
		return
	}
	body, err := header.Open()
	if err != nil {
		h.orc.Fail(c, file.ErrParseFile)
		return
	}
	defer body.Close()

	in := services.FileAddInput{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	var fileID int64
	runErr := h.orc.Run(c, history.FeatureFile, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		id, rows, err := services.NewFileService(tx, h.backend).Add(ctx, in)
		if err != nil {
			return nil, nil, err
		}
		fileID = id
		return httpdto.IDResponse{ID: id}, rows, nil
	})
	if runErr != nil {
		return
	}

	// The metadata row is committed; only now may the blob land in the
	// backend. Download treats a missing blob as a missing file.
	ctx := c.Request.Context()
	if err := services.NewFileService(h.pool, h.backend).Store(ctx, fileID, body, header.Size, in.ContentType); err != nil {
		h.log.ErrorCtx(ctx, "file body write failed",
			zap.Int64("fileID", fileID), zap.Error(err))
	}
}

// Download streams the body directly instead of wrapping it in the JSON
// envelope. The session check still applies; the read needs no transaction.
func (h *FileHandler) Download(c *gin.Context) {
	secret := c.GetHeader(server.SecretHeader)
	ctx := c.Request.Context()
	if _, err := h.verify(ctx, secret); err != nil {
		h.orc.Fail(c, err)
		return
	}

	id, ok := paramInt64(c, "id")
	if !ok {
		h.orc.Fail(c, file.ErrParseID)
		return
	}

	download, err := services.NewFileService(h.pool, h.backend).Download(ctx, id)
	if err != nil {
		h.orc.Fail(c, err)
		return
	}
	defer download.Body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+download.Meta.Name+`"`)
	c.DataFromReader(http.StatusOK, download.Meta.Size, download.Meta.ContentType, download.Body, nil)
}

func (h *FileHandler) verify(ctx context.Context, secret string) (int16, error) {
	if userID, ok, err := h.orc.Sessions().Get(ctx, secret); err == nil && ok {
		return userID, nil
	}
	return services.NewTokenService(h.pool).Verify(ctx, secret, nowUTC())
}
