package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/NarmCo/chatroom/pkg/database"
)

type ThreadRepository struct {
	db database.DBTX
}

func NewThreadRepository(db database.DBTX) *ThreadRepository {
	return &ThreadRepository{db: db}
}

type ThreadInsert struct {
	Title             string
	ChatID            int64
	ThreadOwnerID     int16
	ChatOwnerID       int16
	LastMessageSentAt time.Time
}

// ThreadListRow is the projection used by the thread-list aggregation.
type ThreadListRow struct {
	ID      int64
	Title   string
	OwnerID int16
}

func (r *ThreadRepository) Insert(ctx context.Context, t ThreadInsert) (int64, error) {
	sqlStr, args, err := psql.Insert("threads").
		Columns("title", "chat_id", "thread_owner_id", "chat_owner_id", "last_message_sent_at").
		Values(t.Title, t.ChatID, t.ThreadOwnerID, t.ChatOwnerID, t.LastMessageSentAt).
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

// ExistsForOwner checks the thread exists and userID is its owner or the
// owner of the enclosing chat.
func (r *ThreadRepository) ExistsForOwner(ctx context.Context, id int64, userID int16) error {
	sqlStr, args, err := psql.Select("id").
		From("threads").
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Or{
				sq.Eq{"thread_owner_id": userID},
				sq.Eq{"chat_owner_id": userID},
			},
		}).
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

// ExistsForViewer checks the thread exists inside a chat the viewer owns
// or belongs to.
func (r *ThreadRepository) ExistsForViewer(ctx context.Context, id int64, viewerID int16) error {
	sqlStr, args, err := psql.Select("t.id").
		From("threads t").
		Join("chats c ON c.id = t.chat_id").
		Where(sq.And{
			sq.Eq{"t.id": id},
			viewerPredicate(viewerID),
		}).
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

// ExistsInChat checks the thread belongs to the stated chat.
func (r *ThreadRepository) ExistsInChat(ctx context.Context, id, chatID int64) error {
	sqlStr, args, err := psql.Select("id").
		From("threads").
		Where(sq.Eq{"id": id, "chat_id": chatID}).
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

// GetTitles batch-resolves thread titles, one query for the whole id set.
func (r *ThreadRepository) GetTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	titles := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	sqlStr, args, err := psql.Select("id", "title").
		From("threads").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

func (r *ThreadRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	sqlStr, args, err := psql.Update("threads").
		Set("title", title).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *ThreadRepository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("threads").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *ThreadRepository) TouchLastMessage(ctx context.Context, id int64, sentAt time.Time) error {
	sqlStr, args, err := psql.Update("threads").
		Set("last_message_sent_at", sentAt).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

// ListForChat scans a chat's threads, most recent activity first. scopeID
// narrows to a single thread; step == -1 means unbounded.
func (r *ThreadRepository) ListForChat(ctx context.Context, chatID int64, start, step int64, scopeID *int64) ([]ThreadListRow, error) {
	pred := sq.And{sq.Eq{"chat_id": chatID}}
	if scopeID != nil {
		pred = append(pred, sq.Eq{"id": *scopeID})
	}
	b := psql.Select("id", "title", "thread_owner_id").
		From("threads").
		Where(pred).
		OrderBy("last_message_sent_at DESC").
		Offset(uint64(start))
	if step != -1 {
		b = b.Limit(uint64(step))
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ThreadListRow
	for rows.Next() {
		var row ThreadListRow
		if err := rows.Scan(&row.ID, &row.Title, &row.OwnerID); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ThreadRepository) CountForChat(ctx context.Context, chatID int64, scopeID *int64) (int64, error) {
	pred := sq.And{sq.Eq{"chat_id": chatID}}
	if scopeID != nil {
		pred = append(pred, sq.Eq{"id": *scopeID})
	}
	sqlStr, args, err := psql.Select("COUNT(id)").
		From("threads").
		Where(pred).
		ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
