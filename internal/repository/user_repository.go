package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/NarmCo/chatroom/internal/domain/user"
	"github.com/NarmCo/chatroom/pkg/database"
)

type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Credentials is the projection used by login.
type Credentials struct {
	ID       int16
	Password string
}

type UserInsert struct {
	Username string
	Password string
	Name     string
	Phone    string
	IsAdmin  bool
	FileID   int64
}

type UserUpdate struct {
	Username *string
	Password *string
	Name     *string
	Phone    *string
	FileID   *int64
}

func (r *UserRepository) Insert(ctx context.Context, u UserInsert) (int16, error) {
	sqlStr, args, err := psql.Insert("users").
		Columns("username", "password", "name", "phone", "is_admin", "file_id").
		Values(u.Username, u.Password, u.Name, u.Phone, u.IsAdmin, u.FileID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int16
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, id int16, u UserUpdate) error {
	b := psql.Update("users").Where(sq.Eq{"id": id})
	if u.Username != nil {
		b = b.Set("username", *u.Username)
	}
	if u.Password != nil {
		b = b.Set("password", *u.Password)
	}
	if u.Name != nil {
		b = b.Set("name", *u.Name)
	}
	if u.Phone != nil {
		b = b.Set("phone", *u.Phone)
	}
	if u.FileID != nil {
		b = b.Set("file_id", *u.FileID)
	}
	sqlStr, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return err
	}
	var returned int16
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *UserRepository) Delete(ctx context.Context, id int16) error {
	sqlStr, args, err := psql.Delete("users").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	var returned int16
	return r.db.QueryRow(ctx, sqlStr, args...).Scan(&returned)
}

func (r *UserRepository) GetByID(ctx context.Context, id int16) (user.User, error) {
	sqlStr, args, err := psql.Select("id", "username", "name", "phone", "is_admin", "file_id").
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return user.User{}, err
	}
	var u user.User
	if err := r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&u.ID, &u.Username, &u.Name, &u.Phone, &u.IsAdmin, &u.FileID); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (r *UserRepository) GetCredentials(ctx context.Context, username string) (Credentials, error) {
	sqlStr, args, err := psql.Select("id", "password").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return Credentials{}, err
	}
	var c Credentials
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&c.ID, &c.Password); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// IsAdmin issues the permission read used by admin-only mutations.
func (r *UserRepository) IsAdmin(ctx context.Context, id int16) (bool, error) {
	sqlStr, args, err := psql.Select("COUNT(id)").
		From("users").
		Where(sq.Eq{"id": id, "is_admin": true}).
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

// GetNames batch-resolves display names, one query for the whole id set.
func (r *UserRepository) GetNames(ctx context.Context, ids []int16) (map[int16]string, error) {
	names := make(map[int16]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	sqlStr, args, err := psql.Select("id", "name").
		From("users").
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
		var id int16
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// UserDisplay is the slice of a user shown when a direct chat stands in
// for them: the name becomes the title and the avatar the chat image.
type UserDisplay struct {
	Name   string
	FileID *int64
}

func (r *UserRepository) GetDisplays(ctx context.Context, ids []int16) (map[int16]UserDisplay, error) {
	displays := make(map[int16]UserDisplay, len(ids))
	if len(ids) == 0 {
		return displays, nil
	}
	sqlStr, args, err := psql.Select("id", "name", "file_id").
		From("users").
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
		var id int16
		var d UserDisplay
		if err := rows.Scan(&id, &d.Name, &d.FileID); err != nil {
			return nil, err
		}
		displays[id] = d
	}
	return displays, rows.Err()
}

func (r *UserRepository) List(ctx context.Context, start, step int64) ([]user.User, int64, error) {
	b := psql.Select("id", "username", "name", "phone", "is_admin", "file_id").
		From("users").
		OrderBy("id ASC").
		Offset(uint64(start))
	if step != -1 {
		b = b.Limit(uint64(step))
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Phone, &u.IsAdmin, &u.FileID); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countSQL, countArgs, err := psql.Select("COUNT(id)").From("users").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
