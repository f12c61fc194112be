package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/NarmCo/chatroom/internal/domain/history"
	"github.com/NarmCo/chatroom/internal/domain/token"
	"github.com/NarmCo/chatroom/internal/domain/user"
	"github.com/NarmCo/chatroom/internal/repository"
	"github.com/NarmCo/chatroom/pkg/database"
)

const secretInsertAttempts = 5

type TokenService struct {
	tokens *repository.TokenRepository
	users  *repository.UserRepository
}

func NewTokenService(db database.DBTX) *TokenService {
	return &TokenService{
		tokens: repository.NewTokenRepository(db),
		users:  repository.NewUserRepository(db),
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Secret   string
	ExpireAt time.Time
	UserID   int16
}

// Login checks credentials, sweeps the user's expired sessions, enforces
// the session cap and mints a fresh secret.
func (s *TokenService) Login(ctx context.Context, in LoginInput, now time.Time) (LoginResult, []history.Row, error) {
	if !user.ValidateUsername(in.Username) {
		return LoginResult{}, nil, token.ErrInvalidUsername
	}
	if !user.ValidatePassword(in.Password) {
		return LoginResult{}, nil, token.ErrInvalidPassword
	}

	creds, err := s.users.GetCredentials(ctx, in.Username)
	if err != nil {
		if database.IsNoRows(err) {
			return LoginResult{}, nil, token.ErrUsernameNotFound
		}
		return LoginResult{}, nil, token.StoreError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.Password), []byte(in.Password)) != nil {
		return LoginResult{}, nil, token.ErrPasswordMismatch
	}

	sessions, err := s.tokens.ListByUser(ctx, creds.ID)
	if err != nil {
		return LoginResult{}, nil, token.StoreError(err)
	}

	var histories []history.Row
	var expiredIDs []int64
	live := 0
	for _, t := range sessions {
		if t.Expired(now) {
			expiredIDs = append(expiredIDs, t.ID)
			histories = append(histories, history.Row{
				Feature:    history.FeatureToken,
				Table:      "tokens",
				RowID:      t.ID,
				Operations: []string{token.OperationRemove},
				Data:       map[string]any{"reason": "expired"},
			})
			continue
		}
		live++
	}
	if len(expiredIDs) != 0 {
		if err := s.tokens.DeleteByIDs(ctx, expiredIDs); err != nil {
			return LoginResult{}, nil, token.StoreError(err)
		}
	}
	if live >= token.MaxSessions {
		return LoginResult{}, nil, token.ErrMaxSessions
	}

	expireAt := now.Add(token.Life)
	var id int64
	var secret string
	for attempt := 0; ; attempt++ {
		secret, err = newSecret()
		if err != nil {
			return LoginResult{}, nil, token.StoreError(err)
		}
		id, err = s.tokens.Insert(ctx, repository.TokenInsert{
			UserID:    creds.ID,
			Secret:    secret,
			CreatedAt: now,
			ExpireAt:  expireAt,
		})
		if err == nil {
			break
		}
		if database.IsUniqueViolation(err) && attempt < secretInsertAttempts {
			continue
		}
		return LoginResult{}, nil, token.StoreError(err)
	}

	histories = append(histories, history.Row{
		Feature:    history.FeatureToken,
		Table:      "tokens",
		RowID:      id,
		Operations: []string{token.OperationAdd},
		Data:       map[string]any{"userID": creds.ID, "expireAt": expireAt},
	})

	return LoginResult{Secret: secret, ExpireAt: expireAt, UserID: creds.ID}, histories, nil
}

// Verify resolves a secret to its user. Expired sessions fail verification
// but are left in place for the next login sweep.
func (s *TokenService) Verify(ctx context.Context, secret string, now time.Time) (int16, error) {
	if !token.ValidateSecret(secret) {
		return 0, token.ErrInvalidSecret
	}
	t, err := s.tokens.FindBySecret(ctx, secret)
	if err != nil {
		if database.IsNoRows(err) {
			return 0, token.ErrNotFound
		}
		return 0, token.StoreError(err)
	}
	if t.Expired(now) {
		return 0, token.ErrExpired
	}
	return t.UserID, nil
}

type ExtendResult struct {
	ExpireAt time.Time
}

// Extend pushes a session's expiry out by a full life, but only once the
// remaining life has dropped below the extension threshold.
func (s *TokenService) Extend(ctx context.Context, secret string, now time.Time) (ExtendResult, []history.Row, error) {
	if !token.ValidateSecret(secret) {
		return ExtendResult{}, nil, token.ErrInvalidSecret
	}
	t, err := s.tokens.FindBySecret(ctx, secret)
	if err != nil {
		if database.IsNoRows(err) {
			return ExtendResult{}, nil, token.ErrNotFound
		}
		return ExtendResult{}, nil, token.StoreError(err)
	}
	if t.Expired(now) {
		return ExtendResult{}, nil, token.ErrExpired
	}
	if !t.Extendable(now) {
		return ExtendResult{}, nil, token.ErrExtendTooEarly
	}

	expireAt := now.Add(token.Life)
	if err := s.tokens.UpdateExpire(ctx, t.ID, expireAt); err != nil {
		return ExtendResult{}, nil, token.StoreError(err)
	}

	histories := []history.Row{{
		Feature:    history.FeatureToken,
		Table:      "tokens",
		RowID:      t.ID,
		Operations: []string{token.OperationExtend},
		Data:       map[string]any{"expireAt": expireAt},
	}}
	return ExtendResult{ExpireAt: expireAt}, histories, nil
}

// Logout removes the session behind the secret.
func (s *TokenService) Logout(ctx context.Context, secret string) ([]history.Row, error) {
	if !token.ValidateSecret(secret) {
		return nil, token.ErrInvalidSecret
	}
	id, err := s.tokens.DeleteBySecret(ctx, secret)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, token.ErrNotFound
		}
		return nil, token.StoreError(err)
	}
	histories := []history.Row{{
		Feature:    history.FeatureToken,
		Table:      "tokens",
		RowID:      id,
		Operations: []string{token.OperationRemove},
	}}
	return histories, nil
}

// WhoAmI returns the profile of the authenticated user.
func (s *TokenService) WhoAmI(ctx context.Context, userID int16) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if database.IsNoRows(err) {
			return user.User{}, token.ErrNotFound
		}
		return user.User{}, token.StoreError(err)
	}
	u.Password = ""
	return u, nil
}

func newSecret() (string, error) {
	buf := make([]byte, token.SecretLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
