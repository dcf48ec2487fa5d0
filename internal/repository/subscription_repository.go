package repository

import (
	"context"

	"github.com/qupid-app/qupid-backend/internal/domain"
)

type SubscriptionRepository interface {
	Get(ctx context.Context, userID string) (*domain.SubscriptionStatus, error)
	Save(ctx context.Context, userID string, status *domain.SubscriptionStatus) error
}

// UsageRepository stores one counter record per user and calendar day.
type UsageRepository interface {
	Get(ctx context.Context, userID, date string) (domain.DailyUsage, error)
	Save(ctx context.Context, userID, date string, usage domain.DailyUsage) error
}

type MessageRepository interface {
	Append(ctx context.Context, message *domain.Message) error
	List(ctx context.Context, conversationID string) ([]*domain.Message, error)
}
