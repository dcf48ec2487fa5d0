package repository

import (
	"context"

	"github.com/qupid-app/qupid-backend/internal/domain"
)

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, userID string) error
	ListCompleted(ctx context.Context) ([]*domain.Profile, error)
}

type OnboardingRepository interface {
	Get(ctx context.Context, userID string) (*domain.OnboardingState, error)
	Save(ctx context.Context, state *domain.OnboardingState) error
	Delete(ctx context.Context, userID string) error
}
