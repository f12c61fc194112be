package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/middleware"
	"github.com/NarmCo/chatroom/internal/redis"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
	"github.com/NarmCo/chatroom/pkg/database"
	chatroom_errors "github.com/NarmCo/chatroom/pkg/errors"
	"github.com/NarmCo/chatroom/pkg/logger"
)

// SecretHeader carries the session secret on authenticated requests.
const SecretHeader = "secret"

// Action is one feature operation run inside the request transaction.
// The returned history rows are stamped and persisted after the action.
type Action func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error)

// Orchestrator wraps every request in one serializable transaction:
// verify the session, run the action, append the log row, batch-insert the
// history rows, commit. Any failure rolls the whole request back.
type Orchestrator struct {
	pool     *pgxpool.Pool
	sessions *redis.SessionCache
	log      *logger.Logger
}

func NewOrchestrator(pool *pgxpool.Pool, sessions *redis.SessionCache, log *logger.Logger) *Orchestrator {
	return &Orchestrator{pool: pool, sessions: sessions, log: log}
}

// Sessions exposes the session cache for actions that invalidate entries.
func (o *Orchestrator) Sessions() *redis.SessionCache {
	return o.sessions
}

// Run executes an action for a feature and reports whether the transaction
// committed, so callers with post-commit work know the outcome. Public
// endpoints skip session verification and record a nil acting user on their
// history rows.
func (o *Orchestrator) Run(c *gin.Context, feature string, public bool, action Action) error {
	ctx := c.Request.Context()
	now := time.Now().UTC()
	secret := c.GetHeader(SecretHeader)

	var result any
	err := database.WithSerializable(ctx, o.pool, func(tx pgx.Tx) error {
		var actorID int16
		var actorPtr *int16
		if !public {
			id, err := o.verify(ctx, tx, secret, now)
			if err != nil {
				return err
			}
			actorID = id
			actorPtr = &actorID
			ctx = context.WithValue(ctx, logger.UserIdKey, strconv.FormatInt(int64(id), 10))
			c.Request = c.Request.WithContext(ctx)
		}

		res, rows, err := action(ctx, tx, actorID)
		if err != nil {
			return err
		}
		result = res

		envelope := httpdto.Response{Feature: feature, Code: chatroom_errors.CodeOK, Data: result}
		logID, err := o.insertLog(ctx, tx, c, envelope, now)
		if err != nil {
			return chatroom_errors.Store(feature, err)
		}
		if err := repository.NewHistoryRepository(tx).InsertBatch(ctx, logID, actorPtr, rows, now); err != nil {
			return chatroom_errors.Store(feature, err)
		}
		return nil
	})
	if err != nil {
		o.fail(c, feature, err, now)
		return err
	}

	c.JSON(http.StatusOK, httpdto.Response{Feature: feature, Code: chatroom_errors.CodeOK, Data: result})
	return nil
}

// Fail writes an error envelope without touching the store. Handlers use it
// for parse failures that never reach a transaction.
func (o *Orchestrator) Fail(c *gin.Context, err error) {
	o.fail(c, history.FeatureNull, err, time.Now().UTC())
}

func (o *Orchestrator) verify(ctx context.Context, tx pgx.Tx, secret string, now time.Time) (int16, error) {
	if userID, ok, err := o.sessions.Get(ctx, secret); err == nil && ok {
		return userID, nil
	} else if err != nil {
		o.log.ErrorCtx(ctx, "session cache read failed", zap.Error(err))
	}

	userID, err := services.NewTokenService(tx).Verify(ctx, secret, now)
	if err != nil {
		return 0, err
	}
	if err := o.sessions.Set(ctx, secret, userID); err != nil {
		o.log.ErrorCtx(ctx, "session cache write failed", zap.Error(err))
	}
	return userID, nil
}

func (o *Orchestrator) insertLog(ctx context.Context, tx pgx.Tx, c *gin.Context, envelope httpdto.Response, now time.Time) (int64, error) {
	resp, err := json.Marshal(envelope)
	if err != nil {
		return 0, err
	}
	return repository.NewLogRepository(tx).Insert(ctx, repository.LogInsert{
		API:       c.Request.Method + " " + c.FullPath(),
		Headers:   requestHeaders(c),
		Body:      requestBody(c),
		Response:  string(resp),
		CreatedAt: now,
	})
}

func (o *Orchestrator) fail(c *gin.Context, feature string, err error, now time.Time) {
	appErr, ok := chatroom_errors.From(err)
	if !ok {
		appErr = chatroom_errors.Store(feature, err)
	}
	ctx := c.Request.Context()
	if chatroom_errors.IsStore(err) {
		o.log.ErrorCtx(ctx, "request failed on store error", zap.String("feature", appErr.Feature), zap.Error(err))
	} else {
		o.log.InfoCtx(ctx, "request rejected", zap.String("feature", appErr.Feature), zap.Int("code", appErr.Code))
	}

	data := appErr.Data
	if appErr.Code == chatroom_errors.CodeStore {
		data = nil
	}
	envelope := httpdto.Response{Feature: appErr.Feature, Code: appErr.Code, Data: data}
	// Failed requests still leave a log row; best effort outside the
	// rolled-back transaction.
	if resp, merr := json.Marshal(envelope); merr == nil {
		_, lerr := repository.NewLogRepository(o.pool).Insert(ctx, repository.LogInsert{
			API:       c.Request.Method + " " + c.FullPath(),
			Headers:   requestHeaders(c),
			Body:      requestBody(c),
			Response:  string(resp),
			CreatedAt: now,
		})
		if lerr != nil {
			o.log.ErrorCtx(ctx, "failed to record request log", zap.Error(lerr))
		}
	}

	c.JSON(http.StatusOK, envelope)
}

func requestHeaders(c *gin.Context) string {
	raw, err := json.Marshal(c.Request.Header)
	if err != nil {
		return ""
	}
	return string(raw)
}

// requestBody returns the body buffered by the capture middleware. Bodiless
// requests fall back to the query string so the log row still carries the
// request's input.
func requestBody(c *gin.Context) string {
	if raw, ok := c.Get(middleware.RawBodyKey); ok {
		if b, ok := raw.([]byte); ok && len(b) > 0 {
			return string(b)
		}
	}
	return c.Request.URL.RawQuery
}
