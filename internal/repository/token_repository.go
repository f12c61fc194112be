package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/NarmCo/chatroom/internal/domain/token"
	"github.com/NarmCo/chatroom/pkg/database"
)

type TokenRepository struct {
	db database.DBTX
}

func NewTokenRepository(db database.DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

type TokenInsert struct {
	UserID    int16
	Secret    string
	CreatedAt time.Time
	ExpireAt  time.Time
}

// Insert stores a fresh session. A unique-violation on the secret is the
// caller's cue to regenerate and retry.
func (r *TokenRepository) Insert(ctx context.Context, t TokenInsert) (int64, error) {
	sqlStr, args, err := psql.Insert("tokens").
		Columns("user_id", "secret", "created_at", "expire_at").
		Values(t.UserID, t.Secret, t.CreatedAt, t.ExpireAt).
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

func (r *TokenRepository) FindBySecret(ctx context.Context, secret string) (token.Token, error) {
	sqlStr, args, err := psql.Select("id", "user_id", "secret", "created_at", "expire_at").
		From("tokens").
		Where(sq.Eq{"secret": secret}).
		ToSql()
	if err != nil {
		return token.Token{}, err
	}
	var t token.Token
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.UserID, &t.Secret, &t.CreatedAt, &t.ExpireAt); err != nil {
		return token.Token{}, err
	}
	return t, nil
}

func (r *TokenRepository) ListByUser(ctx context.Context, userID int16) ([]token.Token, error) {
	sqlStr, args, err := psql.Select("id", "user_id", "secret", "created_at", "expire_at").
		From("tokens").
		Where(sq.Eq{"user_id": userID}).
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
	var tokens []token.Token
	for rows.Next() {
		var t token.Token
		if err := rows.Scan(&t.ID, &t.UserID, &t.Secret, &t.CreatedAt, &t.ExpireAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *TokenRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	sqlStr, args, err := psql.Delete("tokens").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

func (r *TokenRepository) DeleteBySecret(ctx context.Context, secret string) (int64, error) {
	sqlStr, args, err := psql.Delete("tokens").
		Where(sq.Eq{"secret": secret}).
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

func (r *TokenRepository) UpdateExpire(ctx context.Context, id int64, expireAt time.Time) error {
	sqlStr, args, err := psql.Update("tokens").
		Set("expire_at", expireAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}
