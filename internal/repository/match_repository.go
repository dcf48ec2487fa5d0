package repository

import (
	"context"

	"github.com/qupid-app/qupid-backend/internal/domain"
)

// SwipeRepository stores like and skip decisions. A user swipes another user
// at most once.
type SwipeRepository interface {
	Create(ctx context.Context, swipe *domain.Swipe) error
	GetByUsers(ctx context.Context, swiperID, swipedID string) (*domain.Swipe, error)
	ListBySwiper(ctx context.Context, swiperID string) ([]*domain.Swipe, error)
}

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error)
	GetUserMatches(ctx context.Context, userID string) ([]*domain.Match, error)
}
