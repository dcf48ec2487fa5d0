package kv

import (
	"context"
	"errors"
	"sync"

	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

type suggestionRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewSuggestionRepository(store storage.Store) repository.SuggestionRepository {
	return &suggestionRepository{store: store}
}

func (r *suggestionRepository) ListShown(ctx context.Context, userID, date string) ([]string, error) {
	var shown []string
	err := storage.GetJSON(ctx, r.store, shownKey(userID, date), &shown)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return shown, nil
}

func (r *suggestionRepository) MarkShown(ctx context.Context, userID, date, shownUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shown, err := r.ListShown(ctx, userID, date)
	if err != nil {
		return err
	}
	for _, id := range shown {
		if id == shownUserID {
			return nil
		}
	}
	return storage.SetJSON(ctx, r.store, shownKey(userID, date), append(shown, shownUserID))
}
