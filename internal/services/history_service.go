package services

import (
	"context"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/user"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

// HistoryService reads the audit trail. Admin only: history rows expose
// other users' activity.
type HistoryService struct {
	histories *repository.HistoryRepository
	users     *repository.UserRepository
}

func NewHistoryService(db database.DBTX) *HistoryService {
	return &HistoryService{
		histories: repository.NewHistoryRepository(db),
		users:     repository.NewUserRepository(db),
	}
}

func (s *HistoryService) ListByRow(ctx context.Context, actorID int16, table string, rowID int64) ([]history.Record, error) {
	isAdmin, err := s.users.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, user.StoreError(err)
	}
	if !isAdmin {
		return nil, user.ErrPermissionDenied
	}
	records, err := s.histories.ListByRow(ctx, table, rowID)
	if err != nil {
		return nil, user.StoreError(err)
	}
	return records, nil
}
