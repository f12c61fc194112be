package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/message"
	"github.com/NarmCo/chatroom/internal/domain/user"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

type UserService struct {
	users *repository.UserRepository
	files *repository.FileRepository
}

func NewUserService(db database.DBTX) *UserService {
	return &UserService{
		users: repository.NewUserRepository(db),
		files: repository.NewFileRepository(db),
	}
}

type UserAddInput struct {
	Username string
	Password string
	Name     string
	Phone    string
	IsAdmin  bool
	FileID   *int64
}

// Add creates a user. Only admins may create accounts.
func (s *UserService) Add(ctx context.Context, actorID int16, in UserAddInput) (int16, []history.Row, error) {
	isAdmin, err := s.users.IsAdmin(ctx, actorID)
	if err != nil {
		return 0, nil, user.StoreError(err)
	}
	if !isAdmin {
		return 0, nil, user.ErrPermissionDenied
	}

	if !user.ValidateUsername(in.Username) {
		return 0, nil, user.ErrInvalidUsername
	}
	if !user.ValidatePassword(in.Password) {
		return 0, nil, user.ErrInvalidPassword
	}
	if !user.ValidateName(in.Name) {
		return 0, nil, user.ErrInvalidName
	}
	if !user.ValidatePhone(in.Phone) {
		return 0, nil, user.ErrInvalidPhone
	}

	fileID := message.DefaultFileID
	if in.FileID != nil {
		if *in.FileID <= 0 {
			return 0, nil, user.ErrInvalidFileID
		}
		exists, err := s.files.Exists(ctx, *in.FileID)
		if err != nil {
			return 0, nil, user.StoreError(err)
		}
		if !exists {
			return 0, nil, user.ErrInvalidFileID
		}
		fileID = *in.FileID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, nil, user.StoreError(err)
	}

	id, err := s.users.Insert(ctx, repository.UserInsert{
		Username: in.Username,
		Password: string(hashed),
		Name:     in.Name,
		Phone:    in.Phone,
		IsAdmin:  in.IsAdmin,
		FileID:   fileID,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, nil, user.ErrInvalidUsername
		}
		return 0, nil, user.StoreError(err)
	}

	histories := []history.Row{{
		Feature:    history.FeatureUser,
		Table:      "users",
		RowID:      int64(id),
		Operations: []string{user.OperationAdd},
		Data: map[string]any{
			"username": in.Username,
			"password": string(hashed),
			"name":     in.Name,
			"phone":    in.Phone,
			"isAdmin":  in.IsAdmin,
			"fileID":   fileID,
		},
	}}
	return id, histories, nil
}

type UserEditInput struct {
	ID       *int16
	Username *string
	Password *string
	Name     *string
	Phone    *string
	FileID   *int64
}

// Edit updates profile fields. Users edit themselves; admins may edit
// anyone by passing an explicit id.
func (s *UserService) Edit(ctx context.Context, actorID int16, in UserEditInput) ([]history.Row, error) {
	targetID := actorID
	if in.ID != nil && *in.ID != actorID {
		isAdmin, err := s.users.IsAdmin(ctx, actorID)
		if err != nil {
			return nil, user.StoreError(err)
		}
		if !isAdmin {
			return nil, user.ErrPermissionDenied
		}
		targetID = *in.ID
	}

	var update repository.UserUpdate
	var ops []string
	data := map[string]any{}

	if in.Username != nil {
		if !user.ValidateUsername(*in.Username) {
			return nil, user.ErrInvalidUsername
		}
		update.Username = in.Username
		ops = append(ops, user.OperationEditUsername)
		data["username"] = *in.Username
	}
	if in.Password != nil {
		if !user.ValidatePassword(*in.Password) {
			return nil, user.ErrInvalidPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, user.StoreError(err)
		}
		h := string(hashed)
		update.Password = &h
		ops = append(ops, user.OperationEditPassword)
		data["password"] = h
	}
	if in.Name != nil {
		if !user.ValidateName(*in.Name) {
			return nil, user.ErrInvalidName
		}
		update.Name = in.Name
		ops = append(ops, user.OperationEditName)
		data["name"] = *in.Name
	}
	if in.Phone != nil {
		if !user.ValidatePhone(*in.Phone) {
			return nil, user.ErrInvalidPhone
		}
		update.Phone = in.Phone
		ops = append(ops, user.OperationEditPhone)
		data["phone"] = *in.Phone
	}
	if in.FileID != nil {
		exists, err := s.files.Exists(ctx, *in.FileID)
		if err != nil {
			return nil, user.StoreError(err)
		}
		if !exists {
			return nil, user.ErrInvalidFileID
		}
		update.FileID = in.FileID
		ops = append(ops, user.OperationEditFileID)
		data["fileID"] = *in.FileID
	}
	if len(ops) == 0 {
		return nil, user.ErrNoChanges
	}

	if err := s.users.Update(ctx, targetID, update); err != nil {
		if database.IsNoRows(err) {
			return nil, user.ErrNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, user.ErrInvalidUsername
		}
		return nil, user.StoreError(err)
	}

	histories := []history.Row{{
		Feature:    history.FeatureUser,
		Table:      "users",
		RowID:      int64(targetID),
		Operations: ops,
		Data:       data,
	}}
	return histories, nil
}

// Remove deletes a user. Admin only.
func (s *UserService) Remove(ctx context.Context, actorID, targetID int16) ([]history.Row, error) {
	isAdmin, err := s.users.IsAdmin(ctx, actorID)
	if err != nil {
		return nil, user.StoreError(err)
	}
	if !isAdmin {
		return nil, user.ErrPermissionDenied
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		if database.IsNoRows(err) {
			return nil, user.ErrNotFound
		}
		return nil, user.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureUser,
		Table:      "users",
		RowID:      int64(targetID),
		Operations: []string{user.OperationRemove},
	}}
	return histories, nil
}

type UserListResult struct {
	Users []user.User
	Total int64
}

// Get lists users, paged, with passwords blanked.
func (s *UserService) Get(ctx context.Context, start, step int64) (UserListResult, error) {
	users, total, err := s.users.List(ctx, start, step)
	if err != nil {
		return UserListResult{}, user.StoreError(err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return UserListResult{Users: users, Total: total}, nil
}
