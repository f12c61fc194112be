package repository

import (
	"context"
	"time"

	"github.com/NarmCo/chatroom/pkg/database"
)

type LogRepository struct {
	db database.DBTX
}

func NewLogRepository(db database.DBTX) *LogRepository {
	return &LogRepository{db: db}
}

type LogInsert struct {
	API       string
	Headers   string
	Body      string
	Response  string
	CreatedAt time.Time
}

func (r *LogRepository) Insert(ctx context.Context, l LogInsert) (int64, error) {
	sqlStr, args, err := psql.Insert("logs").
		Columns("api", "headers", "body", "response", "created_at").
		Values(l.API, l.Headers, l.Body, l.Response, l.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
