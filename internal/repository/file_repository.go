package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/NarmCo/chatroom/internal/domain/file"
	"github.com/NarmCo/chatroom/pkg/database"
)

type FileRepository struct {
	db database.DBTX
}

func NewFileRepository(db database.DBTX) *FileRepository {
	return &FileRepository{db: db}
}

type FileInsert struct {
	Size        int64
	Name        string
	ContentType string
	FileType    file.FileType
}

func (r *FileRepository) Insert(ctx context.Context, f FileInsert) (int64, error) {
	sqlStr, args, err := psql.Insert("files").
		Columns("size", "name", "content_type", "file_type").
		Values(f.Size, f.Name, f.ContentType, f.FileType).
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

func (r *FileRepository) Get(ctx context.Context, id int64) (file.File, error) {
	sqlStr, args, err := psql.Select("id", "size", "name", "content_type", "file_type").
		From("files").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return file.File{}, err
	}
	var f file.File
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&f.ID, &f.Size, &f.Name, &f.ContentType, &f.FileType); err != nil {
		return file.File{}, err
	}
	return f, nil
}

// Exists is the cheap form used when only referential integrity matters.
func (r *FileRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").
		From("files").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
