package repository

import (
	"context"

	"github.com/qupid-app/qupid-backend/internal/domain"
)

type UserRepository interface {
	Register(ctx context.Context, user *domain.RegisteredUser) error
	GetByEmail(ctx context.Context, email string) (*domain.RegisteredUser, error)
	GetByID(ctx context.Context, id string) (*domain.RegisteredUser, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// SessionRepository stores the current-user record of each signed-in account.
type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, userID string) (*domain.Session, error)
	Delete(ctx context.Context, userID string) error
}

type PasswordResetRepository interface {
	Save(ctx context.Context, reset *domain.PasswordReset) error
	Get(ctx context.Context, userID string) (*domain.PasswordReset, error)
	Delete(ctx context.Context, userID string) error
}
