package repository

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/pkg/database"
)

type HistoryRepository struct {
	db database.DBTX
}

func NewHistoryRepository(db database.DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertBatch stamps every collected row with the request's log id and
// acting user id and writes them in one statement.
func (r *HistoryRepository) InsertBatch(ctx context.Context, logID int64, userID *int16, rows []history.Row, now time.Time) error {
	if len(rows) == 0 {
		return nil
	}
	b := psql.Insert("histories").
		Columns("log_id", "user_id", "feature", "tbl", "row_id", "operations", "data", "created_at")
	for _, row := range rows {
		data, err := json.Marshal(row.Data)
		if err != nil {
			return err
		}
		ops, err := json.Marshal(row.Operations)
		if err != nil {
			return err
		}
		b = b.Values(logID, userID, row.Feature, row.Table, row.RowID, ops, data, now)
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

// ListByRow returns the audit trail of one stored row, oldest first.
func (r *HistoryRepository) ListByRow(ctx context.Context, table string, rowID int64) ([]history.Record, error) {
	sqlStr, args, err := psql.
		Select("id", "log_id", "user_id", "feature", "tbl", "row_id", "operations", "data", "created_at").
		From("histories").
		Where(sq.Eq{"tbl": table, "row_id": rowID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []history.Record
	for rows.Next() {
		var rec history.Record
		var ops, data []byte
		if err := rows.Scan(&rec.ID, &rec.LogID, &rec.UserID, &rec.Feature, &rec.Table,
			&rec.RowID, &ops, &data, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if len(ops) > 0 {
			if err := json.Unmarshal(ops, &rec.Operations); err != nil {
				return nil, err
			}
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Data); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
