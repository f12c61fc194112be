package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/NarmCo/chatroom/pkg/database"
)

type ChatRepository struct {
	db database.DBTX
}

func NewChatRepository(db database.DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

type ChatInsert struct {
	Title             *string
	OwnerID           int16
	IsGroup           bool
	LastMessageSentAt time.Time
	FileID            *int64
}

// ChatListRow is the membership-scan projection of the list aggregation.
type ChatListRow struct {
	ID      int64
	Title   *string
	IsGroup bool
	OwnerID int16
	FileID  *int64
}

// ChatAccessRow is the projection returned by member-scoped existence checks.
type ChatAccessRow struct {
	OwnerID int16
	IsGroup bool
}

func viewerPredicate(viewerID int16) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"c.owner_id": viewerID},
		sq.Expr("EXISTS (SELECT 1 FROM chat_members cm WHERE cm.chat_id = c.id AND cm.user_id = ?)", viewerID),
	}
}

func (r *ChatRepository) Insert(ctx context.Context, c ChatInsert) (int64, error) {
	sqlStr, args, err := psql.Insert("chats").
		Columns("title", "owner_id", "is_group", "last_message_sent_at", "file_id").
		Values(c.Title, c.OwnerID, c.IsGroup, c.LastMessageSentAt, c.FileID).
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

func (r *ChatRepository) AddMembers(ctx context.Context, chatID int64, userIDs []int16, joinedAt time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}
	b := psql.Insert("chat_members").Columns("chat_id", "user_id", "joined_at")
	for _, id := range userIDs {
		b = b.Values(chatID, id, joinedAt)
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

func (r *ChatRepository) RemoveMembers(ctx context.Context, chatID int64, userIDs []int16) error {
	if len(userIDs) == 0 {
		return nil
	}
	sqlStr, args, err := psql.Delete("chat_members").
		Where(sq.Eq{"chat_id": chatID, "user_id": userIDs}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

// FindDirect looks for an existing direct chat between two users in either
// storage direction and returns its id.
func (r *ChatRepository) FindDirect(ctx context.Context, userA, userB int16) (int64, bool, error) {
	sqlStr, args, err := psql.Select("c.id").
		From("chats c").
		Where(sq.And{
			sq.Eq{"c.is_group": false},
			sq.Or{
				sq.And{
					sq.Eq{"c.owner_id": userA},
					sq.Expr("EXISTS (SELECT 1 FROM chat_members cm WHERE cm.chat_id = c.id AND cm.user_id = ?)", userB),
				},
				sq.And{
					sq.Eq{"c.owner_id": userB},
					sq.Expr("EXISTS (SELECT 1 FROM chat_members cm WHERE cm.chat_id = c.id AND cm.user_id = ?)", userA),
				},
			},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		if database.IsNoRows(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// GetOwned fetches a chat only when ownerID owns it; used by edit/remove.
func (r *ChatRepository) GetOwned(ctx context.Context, id int64, ownerID int16) (ChatAccessRow, error) {
	sqlStr, args, err := psql.Select("c.owner_id", "c.is_group").
		From("chats c").
		Where(sq.Eq{"c.id": id, "c.owner_id": ownerID}).
		ToSql()
	if err != nil {
		return ChatAccessRow{}, err
	}
	var row ChatAccessRow
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&row.OwnerID, &row.IsGroup); err != nil {
		return ChatAccessRow{}, err
	}
	return row, nil
}

// GetForMember fetches a chat when userID is the owner or a member; the
// not-found and not-authorized cases are indistinguishable to the caller.
func (r *ChatRepository) GetForMember(ctx context.Context, id int64, userID int16) (ChatAccessRow, error) {
	sqlStr, args, err := psql.Select("c.owner_id", "c.is_group").
		From("chats c").
		Where(sq.And{sq.Eq{"c.id": id}, viewerPredicate(userID)}).
		ToSql()
	if err != nil {
		return ChatAccessRow{}, err
	}
	var row ChatAccessRow
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&row.OwnerID, &row.IsGroup); err != nil {
		return ChatAccessRow{}, err
	}
	return row, nil
}

func (r *ChatRepository) Update(ctx context.Context, id int64, title *string, fileID *int64) error {
	b := psql.Update("chats").Where(sq.Eq{"id": id})
	if title != nil {
		b = b.Set("title", *title)
	}
	if fileID != nil {
		b = b.Set("file_id", *fileID)
	}
	sqlStr, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *ChatRepository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("chats").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int64
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *ChatRepository) TouchLastMessage(ctx context.Context, id int64, sentAt time.Time) error {
	sqlStr, args, err := psql.Update("chats").
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

// ListForViewer is the membership scan: every chat the viewer owns or is a
// member of, most recent activity first, windowed by start/step. step == -1
// means unbounded. scopeID narrows the scan to one chat.
func (r *ChatRepository) ListForViewer(ctx context.Context, viewerID int16, start, step int64, scopeID *int64) ([]ChatListRow, error) {
	pred := sq.And{viewerPredicate(viewerID)}
	if scopeID != nil {
		pred = append(pred, sq.Eq{"c.id": *scopeID})
	}
	b := psql.Select("c.id", "c.title", "c.is_group", "c.owner_id", "c.file_id").
		From("chats c").
		Where(pred).
		OrderBy("c.last_message_sent_at DESC").
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
	var result []ChatListRow
	for rows.Next() {
		var row ChatListRow
		if err := rows.Scan(&row.ID, &row.Title, &row.IsGroup, &row.OwnerID, &row.FileID); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// CountForViewer computes the unfiltered total for the same predicate as
// ListForViewer, independent of pagination.
func (r *ChatRepository) CountForViewer(ctx context.Context, viewerID int16, scopeID *int64) (int64, error) {
	pred := sq.And{viewerPredicate(viewerID)}
	if scopeID != nil {
		pred = append(pred, sq.Eq{"c.id": *scopeID})
	}
	sqlStr, args, err := psql.Select("COUNT(c.id)").
		From("chats c").
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

// ListMembers batch-fetches member ids for a chat id set in one query,
// preserving join order.
func (r *ChatRepository) ListMembers(ctx context.Context, chatIDs []int64) (map[int64][]int16, error) {
	members := make(map[int64][]int16, len(chatIDs))
	if len(chatIDs) == 0 {
		return members, nil
	}
	sqlStr, args, err := psql.Select("chat_id", "user_id").
		From("chat_members").
		Where(sq.Eq{"chat_id": chatIDs}).
		OrderBy("chat_id", "joined_at").
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
		var chatID int64
		var userID int16
		if err := rows.Scan(&chatID, &userID); err != nil {
			return nil, err
		}
		members[chatID] = append(members[chatID], userID)
	}
	return members, rows.Err()
}

// IsMember reports strict membership in the member table; the owner does
// not count.
func (r *ChatRepository) IsMember(ctx context.Context, chatID int64, userID int16) (bool, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").
		From("chat_members").
		Where(sq.Eq{"chat_id": chatID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, err
	}
	var count int
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
