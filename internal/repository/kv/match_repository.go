package kv

import (
	"context"
	"errors"
	"sync"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

// swipeRepository keeps every swipe a user made as one JSON list.
type swipeRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewSwipeRepository(store storage.Store) repository.SwipeRepository {
	return &swipeRepository{store: store}
}

func (r *swipeRepository) Create(ctx context.Context, swipe *domain.Swipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	swipes, err := r.ListBySwiper(ctx, swipe.SwiperID)
	if err != nil {
		return err
	}
	for _, s := range swipes {
		if s.SwipedID == swipe.SwipedID {
			return domain.ErrSwipeAlreadyExists
		}
	}
	return storage.SetJSON(ctx, r.store, keySwipesPrefix+swipe.SwiperID, append(swipes, swipe))
}

func (r *swipeRepository) GetByUsers(ctx context.Context, swiperID, swipedID string) (*domain.Swipe, error) {
	swipes, err := r.ListBySwiper(ctx, swiperID)
	if err != nil {
		return nil, err
	}
	for _, s := range swipes {
		if s.SwipedID == swipedID {
			return s, nil
		}
	}
	return nil, domain.ErrSwipeNotFound
}

func (r *swipeRepository) ListBySwiper(ctx context.Context, swiperID string) ([]*domain.Swipe, error) {
	var swipes []*domain.Swipe
	err := storage.GetJSON(ctx, r.store, keySwipesPrefix+swiperID, &swipes)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return swipes, nil
}

// matchRepository stores each match in the lists of both users.
type matchRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewMatchRepository(store storage.Store) repository.MatchRepository {
	return &matchRepository{store: store}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	first, err := r.GetUserMatches(ctx, match.User1ID)
	if err != nil {
		return err
	}
	for _, m := range first {
		if m.HasUser(match.User2ID) {
			return domain.ErrMatchAlreadyExists
		}
	}
	second, err := r.GetUserMatches(ctx, match.User2ID)
	if err != nil {
		return err
	}

	if err := storage.SetJSON(ctx, r.store, keyMatchesPrefix+match.User1ID, append(first, match)); err != nil {
		return err
	}
	return storage.SetJSON(ctx, r.store, keyMatchesPrefix+match.User2ID, append(second, match))
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	matches, err := r.GetUserMatches(ctx, user1ID)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.HasUser(user2ID) {
			return m, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID string) ([]*domain.Match, error) {
	var matches []*domain.Match
	err := storage.GetJSON(ctx, r.store, keyMatchesPrefix+userID, &matches)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return matches, nil
}
