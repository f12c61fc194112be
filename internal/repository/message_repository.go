package repository

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/pkg/database"
)

type MessageRepository struct {
	db database.DBTX
}

func NewMessageRepository(db database.DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

type MessageInsert struct {
	Content   string
	ChatID    int64
	ThreadID  *int64
	Reply     *message.Reply
	Forward   *message.Forward
	UserID    int16
	FileID    *int64
	FileName  *string
	FileSize  *int64
	CreatedAt time.Time
}

// MessageRow is the timeline read projection.
type MessageRow struct {
	ID        int64
	Content   string
	ThreadID  *int64
	ChatID    int64
	Reply     *message.Reply
	Forward   *message.Forward
	UserID    int16
	FileID    *int64
	FileName  *string
	IsEdited  bool
	IsDeleted bool
	CreatedAt time.Time
}

// ReplySourceRow snapshots the replied-to message.
type ReplySourceRow struct {
	ID      int64
	Content string
	UserID  int16
}

// ForwardSourceRow carries everything copied from a forwarded message.
type ForwardSourceRow struct {
	ChatID      int64
	ChatIsGroup bool
	UserID      int16
	ThreadID    *int64
	Content     string
	CreatedAt   time.Time
	FileID      *int64
	FileName    *string
	FileSize    *int64
}

// EditableRow is the projection used by the edit/delete permission check.
type EditableRow struct {
	CreatedAt time.Time
}

// LastMessageRow is one row of the last-message-per-conversation join;
// Key is the chat id or thread id depending on the variant.
type LastMessageRow struct {
	Key       int64
	ID        int64
	Content   string
	UserID    int16
	CreatedAt time.Time
	FileName  *string
	IsDeleted bool
}

func jsonArg(v any) (any, error) {
	switch t := v.(type) {
	case *message.Reply:
		if t == nil {
			return nil, nil
		}
	case *message.Forward:
		if t == nil {
			return nil, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (r *MessageRepository) Insert(ctx context.Context, m MessageInsert) (int64, error) {
	replyArg, err := jsonArg(m.Reply)
	if err != nil {
		return 0, err
	}
	forwardArg, err := jsonArg(m.Forward)
	if err != nil {
		return 0, err
	}
	sqlStr, args, err := psql.Insert("messages").
		Columns("content", "chat_id", "thread_id", "reply", "forward", "user_id",
			"file_id", "file_name", "file_size", "is_edited", "is_deleted", "created_at").
		Values(m.Content, m.ChatID, m.ThreadID, replyArg, forwardArg, m.UserID,
			m.FileID, m.FileName, m.FileSize, false, false, m.CreatedAt).
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

// InsertSeen records one viewer for one message; the author is recorded
// this way at creation time.
func (r *MessageRepository) InsertSeen(ctx context.Context, messageID int64, userID int16) error {
	sqlStr, args, err := psql.Insert("message_seen").
		Columns("message_id", "user_id").
		Values(messageID, userID).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

// GetInChat checks a message exists in the stated chat (reply target).
func (r *MessageRepository) GetInChat(ctx context.Context, id, chatID int64) (ReplySourceRow, error) {
	sqlStr, args, err := psql.Select("id", "content", "user_id").
		From("messages").
		Where(sq.Eq{"id": id, "chat_id": chatID}).
		ToSql()
	if err != nil {
		return ReplySourceRow{}, err
	}
	var row ReplySourceRow
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&row.ID, &row.Content, &row.UserID); err != nil {
		return ReplySourceRow{}, err
	}
	return row, nil
}

// GetForwardSource fetches the message being forwarded along with its
// chat's group flag.
func (r *MessageRepository) GetForwardSource(ctx context.Context, id int64) (ForwardSourceRow, error) {
	sqlStr, args, err := psql.Select("m.chat_id", "c.is_group", "m.user_id", "m.thread_id",
		"m.content", "m.created_at", "m.file_id", "m.file_name", "m.file_size").
		From("messages m").
		Join("chats c ON m.chat_id = c.id").
		Where(sq.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return ForwardSourceRow{}, err
	}
	var row ForwardSourceRow
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&row.ChatID, &row.ChatIsGroup, &row.UserID,
		&row.ThreadID, &row.Content, &row.CreatedAt, &row.FileID, &row.FileName, &row.FileSize); err != nil {
		return ForwardSourceRow{}, err
	}
	return row, nil
}

// GetAuthored fetches the creation time of a live, non-forwarded message
// authored by userID; anything else reads as not found.
func (r *MessageRepository) GetAuthored(ctx context.Context, id int64, userID int16) (EditableRow, error) {
	sqlStr, args, err := psql.Select("created_at").
		From("messages").
		Where(sq.And{
			sq.Eq{"id": id, "user_id": userID, "is_deleted": false},
			sq.Expr("forward IS NULL"),
		}).
		ToSql()
	if err != nil {
		return EditableRow{}, err
	}
	var row EditableRow
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&row.CreatedAt); err != nil {
		return EditableRow{}, err
	}
	return row, nil
}

func (r *MessageRepository) SetContent(ctx context.Context, id int64, content string) error {
	sqlStr, args, err := psql.Update("messages").
		Set("content", content).
		Set("is_edited", true).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *MessageRepository) SoftDelete(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Update("messages").
		Set("is_deleted", true).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

// MarkSeen set-unions the viewer into every unseen message of a chat or
// thread timeline and returns the ids it touched. The anti-join guard keeps
// the union monotonic without redundant writes.
func (r *MessageRepository) MarkSeen(ctx context.Context, chatID, threadID *int64, userID int16) ([]int64, error) {
	pred := sq.And{
		sq.Expr("NOT EXISTS (SELECT 1 FROM message_seen s WHERE s.message_id = m.id AND s.user_id = ?)", userID),
	}
	if chatID != nil {
		pred = append(pred, sq.Eq{"m.chat_id": *chatID})
	}
	if threadID != nil {
		pred = append(pred, sq.Eq{"m.thread_id": *threadID})
	}
	sub := psql.Select().
		Column("m.id").
		Column(sq.Expr("?::smallint", userID)).
		From("messages m").
		Where(pred)
	subSQL, args, err := sub.ToSql()
	if err != nil {
		return nil, err
	}
	sqlStr := "INSERT INTO message_seen (message_id, user_id) " + subSQL + " RETURNING message_id"
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LastMainByChat finds, per chat, the most recent main-timeline message.
// Soft-deleted messages still count; content masking is the caller's job.
func (r *MessageRepository) LastMainByChat(ctx context.Context, chatIDs []int64) ([]LastMessageRow, error) {
	if len(chatIDs) == 0 {
		return nil, nil
	}
	inner := psql.Select("chat_id", "MAX(created_at) AS created_at").
		From("messages").
		Where(sq.And{sq.Eq{"chat_id": chatIDs}, sq.Expr("thread_id IS NULL")}).
		GroupBy("chat_id")
	innerSQL, innerArgs, err := inner.ToSql()
	if err != nil {
		return nil, err
	}
	sqlStr, args, err := psql.
		Select("m1.chat_id", "m1.id", "m1.content", "m1.user_id", "m1.created_at", "m1.file_name", "m1.is_deleted").
		From("messages m1").
		JoinClause("INNER JOIN ("+innerSQL+") m2 ON m1.chat_id = m2.chat_id AND m1.created_at = m2.created_at", innerArgs...).
		Where(sq.Expr("m1.thread_id IS NULL")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryLastRows(ctx, sqlStr, args)
}

// LastByThread is the thread-list variant of LastMainByChat, keyed by
// thread id.
func (r *MessageRepository) LastByThread(ctx context.Context, threadIDs []int64) ([]LastMessageRow, error) {
	if len(threadIDs) == 0 {
		return nil, nil
	}
	inner := psql.Select("thread_id", "MAX(created_at) AS created_at").
		From("messages").
		Where(sq.Eq{"thread_id": threadIDs}).
		GroupBy("thread_id")
	innerSQL, innerArgs, err := inner.ToSql()
	if err != nil {
		return nil, err
	}
	sqlStr, args, err := psql.
		Select("m1.thread_id", "m1.id", "m1.content", "m1.user_id", "m1.created_at", "m1.file_name", "m1.is_deleted").
		From("messages m1").
		JoinClause("INNER JOIN ("+innerSQL+") m2 ON m1.thread_id = m2.thread_id AND m1.created_at = m2.created_at", innerArgs...).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryLastRows(ctx, sqlStr, args)
}

func (r *MessageRepository) queryLastRows(ctx context.Context, sqlStr string, args []any) ([]LastMessageRow, error) {
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []LastMessageRow
	for rows.Next() {
		var row LastMessageRow
		if err := rows.Scan(&row.Key, &row.ID, &row.Content, &row.UserID,
			&row.CreatedAt, &row.FileName, &row.IsDeleted); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// FirstUnseenMainByChat finds, per chat, the lowest-id main-timeline message
// the viewer has not seen. "First" is by id: ids are strictly monotonic and
// cheaper to index than timestamps.
func (r *MessageRepository) FirstUnseenMainByChat(ctx context.Context, chatIDs []int64, viewerID int16) (map[int64]int64, error) {
	return r.firstUnseen(ctx, "chat_id", chatIDs, viewerID, true)
}

// FirstUnseenAnyByChat repeats the unseen search including thread messages;
// used as the fallback when the main timeline is fully seen.
func (r *MessageRepository) FirstUnseenAnyByChat(ctx context.Context, chatIDs []int64, viewerID int16) (map[int64]int64, error) {
	return r.firstUnseen(ctx, "chat_id", chatIDs, viewerID, false)
}

// FirstUnseenByThread is the thread-list variant keyed by thread id.
func (r *MessageRepository) FirstUnseenByThread(ctx context.Context, threadIDs []int64, viewerID int16) (map[int64]int64, error) {
	return r.firstUnseen(ctx, "thread_id", threadIDs, viewerID, false)
}

func (r *MessageRepository) firstUnseen(ctx context.Context, keyCol string, keys []int64, viewerID int16, mainOnly bool) (map[int64]int64, error) {
	result := make(map[int64]int64, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	pred := sq.And{
		sq.Eq{keyCol: keys},
		sq.Expr("NOT EXISTS (SELECT 1 FROM message_seen s WHERE s.message_id = messages.id AND s.user_id = ?)", viewerID),
	}
	if mainOnly {
		pred = append(pred, sq.Expr("thread_id IS NULL"))
	}
	sqlStr, args, err := psql.Select(keyCol, "MIN(id)").
		From("messages").
		Where(pred).
		GroupBy(keyCol).
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
		var key, id int64
		if err := rows.Scan(&key, &id); err != nil {
			return nil, err
		}
		result[key] = id
	}
	return result, rows.Err()
}

// GetAnchor locates a message so a timeline window can be paged around it.
func (r *MessageRepository) GetAnchor(ctx context.Context, id int64) (MessageRow, error) {
	sqlStr, args, err := r.rowSelect().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return MessageRow{}, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return MessageRow{}, err
	}
	defer rows.Close()
	result, err := scanMessageRows(rows)
	if err != nil {
		return MessageRow{}, err
	}
	if len(result) == 0 {
		return MessageRow{}, pgx.ErrNoRows
	}
	return result[0], nil
}

// ListWindow pages a timeline relative to an anchor id. Direction "asc"
// returns ids >= anchor, "desc" returns ids < anchor newest-first.
func (r *MessageRepository) ListWindow(ctx context.Context, chatID int64, threadID *int64, anchorID int64, ascending bool, step int64) ([]MessageRow, error) {
	pred := sq.And{sq.Eq{"chat_id": chatID}}
	if threadID == nil {
		pred = append(pred, sq.Expr("thread_id IS NULL"))
	} else {
		pred = append(pred, sq.Eq{"thread_id": *threadID})
	}
	b := r.rowSelect()
	if ascending {
		pred = append(pred, sq.GtOrEq{"id": anchorID})
		b = b.OrderBy("id ASC")
	} else {
		pred = append(pred, sq.Lt{"id": anchorID})
		b = b.OrderBy("id DESC")
	}
	sqlStr, args, err := b.Where(pred).Limit(uint64(step)).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessageRows(rows)
}

// MessageSearchRow is one text-search hit across the viewer's timelines.
type MessageSearchRow struct {
	ID        int64
	ChatID    int64
	ThreadID  *int64
	Content   string
	UserID    int16
	CreatedAt time.Time
	FileName  *string
}

// searchPredicate matches live messages whose content or attached file name
// contains term. A chat scope covers only the main timeline; a thread scope
// covers that thread; otherwise the hit set spans chatIDs.
func searchPredicate(term string, chatID, threadID *int64, chatIDs []int64) sq.And {
	pattern := "%" + term + "%"
	pred := sq.And{
		sq.Or{
			sq.Like{"content": pattern},
			sq.Like{"file_name": pattern},
		},
		sq.Eq{"is_deleted": false},
	}
	switch {
	case chatID != nil:
		pred = append(pred, sq.Eq{"chat_id": *chatID}, sq.Expr("thread_id IS NULL"))
	case threadID != nil:
		pred = append(pred, sq.Eq{"thread_id": *threadID})
	default:
		pred = append(pred, sq.Eq{"chat_id": chatIDs})
	}
	return pred
}

// Search pages matching messages newest first. step == -1 means unbounded.
func (r *MessageRepository) Search(ctx context.Context, term string, chatID, threadID *int64, chatIDs []int64, start, step int64) ([]MessageSearchRow, error) {
	b := psql.Select("id", "chat_id", "thread_id", "content", "user_id", "created_at", "file_name").
		From("messages").
		Where(searchPredicate(term, chatID, threadID, chatIDs)).
		OrderBy("id DESC").
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
	var result []MessageSearchRow
	for rows.Next() {
		var row MessageSearchRow
		if err := rows.Scan(&row.ID, &row.ChatID, &row.ThreadID, &row.Content,
			&row.UserID, &row.CreatedAt, &row.FileName); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *MessageRepository) SearchCount(ctx context.Context, term string, chatID, threadID *int64, chatIDs []int64) (int64, error) {
	sqlStr, args, err := psql.Select("COUNT(id)").
		From("messages").
		Where(searchPredicate(term, chatID, threadID, chatIDs)).
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

func (r *MessageRepository) rowSelect() sq.SelectBuilder {
	return psql.Select("id", "content", "thread_id", "chat_id", "reply", "forward",
		"user_id", "file_id", "file_name", "is_edited", "is_deleted", "created_at").
		From("messages")
}

func scanMessageRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]MessageRow, error) {
	var result []MessageRow
	for rows.Next() {
		var row MessageRow
		var replyRaw, forwardRaw []byte
		if err := rows.Scan(&row.ID, &row.Content, &row.ThreadID, &row.ChatID,
			&replyRaw, &forwardRaw, &row.UserID, &row.FileID, &row.FileName,
			&row.IsEdited, &row.IsDeleted, &row.CreatedAt); err != nil {
			return nil, err
		}
		if len(replyRaw) > 0 {
			var reply message.Reply
			if err := json.Unmarshal(replyRaw, &reply); err != nil {
				return nil, err
			}
			row.Reply = &reply
		}
		if len(forwardRaw) > 0 {
			var forward message.Forward
			if err := json.Unmarshal(forwardRaw, &forward); err != nil {
				return nil, err
			}
			row.Forward = &forward
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
