package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/server"
	"github.com/NarmCo/chatroom/internal/services"
	"github.com/NarmCo/chatroom/internal/transport/httpdto"
)

type HistoryHandler struct {
	orc *server.Orchestrator
}

func NewHistoryHandler(orc *server.Orchestrator) *HistoryHandler {
	return &HistoryHandler{orc: orc}
}

func (h *HistoryHandler) Register(r gin.IRoutes) {
	r.GET("/histories", h.Get)
}

// Get returns the audit trail of one stored row, identified by table name
// and row id.
func (h *HistoryHandler) Get(c *gin.Context) {
	table := c.Query("table")
	if table == "" {
		h.orc.Fail(c, history.ErrParseTable)
		return
	}
	rowID, ok := queryOptID(c, "rowID")
	if !ok || rowID == nil {
		h.orc.Fail(c, history.ErrParseRowID)
		return
	}

	h.orc.Run(c, history.FeatureHistory, false, func(ctx context.Context, tx pgx.Tx, actorID int16) (any, []history.Row, error) {
		records, err := services.NewHistoryService(tx).ListByRow(ctx, actorID, table, *rowID)
		if err != nil {
			return nil, nil, err
		}
		out := make([]httpdto.HistoryResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, httpdto.HistoryResponse{
				ID:         rec.ID,
				LogID:      rec.LogID,
				UserID:     rec.UserID,
				Feature:    rec.Feature,
				Table:      rec.Table,
				RowID:      rec.RowID,
				Operations: rec.Operations,
				Data:       rec.Data,
				CreatedAt:  rec.CreatedAt,
			})
		}
		return out, nil, nil
	})
}
