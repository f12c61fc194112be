package services

import (
	"context"
	"io"
	"strconv"

	"github.com/NarmCo/chatroom/internal/domain/file"
	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/internal/storage"
	"github.com/NarmCo/chatroom/pkg/database"
)

// FileService persists file metadata in the store and bodies in a storage
// backend keyed by the row id.
type FileService struct {
	files   *repository.FileRepository
	backend storage.Backend
}

func NewFileService(db database.DBTX, backend storage.Backend) *FileService {
	return &FileService{
		files:   repository.NewFileRepository(db),
		backend: backend,
	}
}

type FileAddInput struct {
	Name        string
	ContentType string
	Size        int64
}

// Add records file metadata inside the request transaction. The body goes
// to the backend through Store once the transaction has committed, so a
// rollback never strands an orphaned blob.
func (s *FileService) Add(ctx context.Context, in FileAddInput) (int64, []history.Row, error) {
	fileType, ok := file.Classify(in.ContentType)
	if !ok {
		return 0, nil, file.ErrInvalidFileType
	}
	id, err := s.files.Insert(ctx, repository.FileInsert{
		Size:        in.Size,
		Name:        in.Name,
		ContentType: in.ContentType,
		FileType:    fileType,
	})
	if err != nil {
		return 0, nil, file.StoreError(err)
	}

	histories := []history.Row{{
		Feature:    history.FeatureFile,
		Table:      "files",
		RowID:      id,
		Operations: []string{file.OperationAdd},
		Data: map[string]any{
			"name":        in.Name,
			"size":        in.Size,
			"contentType": in.ContentType,
			"fileType":    fileType,
		},
	}}
	return id, histories, nil
}

// Store writes a committed file's body to the backend under its row id.
func (s *FileService) Store(ctx context.Context, id int64, body io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, strconv.FormatInt(id, 10), body, size, contentType)
}

type FileDownload struct {
	Meta file.File
	Body io.ReadCloser
}

func (s *FileService) Download(ctx context.Context, id int64) (FileDownload, error) {
	if !file.ValidateID(id) {
		return FileDownload{}, file.ErrInvalidID
	}
	meta, err := s.files.Get(ctx, id)
	if err != nil {
		if database.IsNoRows(err) {
			return FileDownload{}, file.ErrNotFound
		}
		return FileDownload{}, file.StoreError(err)
	}
	body, err := s.backend.Get(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return FileDownload{}, file.ErrNotFound
	}
	return FileDownload{Meta: meta, Body: body}, nil
}
