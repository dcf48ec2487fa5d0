package kv

import (
	"context"
	"errors"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

type sessionRepository struct {
	store storage.Store
}

func NewSessionRepository(store storage.Store) repository.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	return storage.SetJSON(ctx, r.store, keyUserPrefix+session.User.ID, session)
}

func (r *sessionRepository) Get(ctx context.Context, userID string) (*domain.Session, error) {
	var session domain.Session
	if err := storage.GetJSON(ctx, r.store, keyUserPrefix+userID, &session); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, keyUserPrefix+userID)
}

type passwordResetRepository struct {
	store storage.Store
}

func NewPasswordResetRepository(store storage.Store) repository.PasswordResetRepository {
	return &passwordResetRepository{store: store}
}

func (r *passwordResetRepository) Save(ctx context.Context, reset *domain.PasswordReset) error {
	return storage.SetJSON(ctx, r.store, keyResetPrefix+reset.UserID, reset)
}

func (r *passwordResetRepository) Get(ctx context.Context, userID string) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	if err := storage.GetJSON(ctx, r.store, keyResetPrefix+userID, &reset); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, keyResetPrefix+userID)
}
