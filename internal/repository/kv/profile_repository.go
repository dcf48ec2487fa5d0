package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

type profileRepository struct {
	store storage.Store
}

func NewProfileRepository(store storage.Store) repository.ProfileRepository {
	return &profileRepository{store: store}
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := storage.GetJSON(ctx, r.store, keyProfilePrefix+userID, &profile); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	return storage.SetJSON(ctx, r.store, keyProfilePrefix+profile.UserID, profile)
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, keyProfilePrefix+userID)
}

func (r *profileRepository) ListCompleted(ctx context.Context) ([]*domain.Profile, error) {
	entries, err := r.store.Scan(ctx, keyProfilePrefix)
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(entries))
	for _, e := range entries {
		var p domain.Profile
		if err := json.Unmarshal(e.Value, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		if p.OnboardingComplete {
			profiles = append(profiles, &p)
		}
	}
	return profiles, nil
}

type onboardingRepository struct {
	store storage.Store
}

func NewOnboardingRepository(store storage.Store) repository.OnboardingRepository {
	return &onboardingRepository{store: store}
}

func (r *onboardingRepository) Get(ctx context.Context, userID string) (*domain.OnboardingState, error) {
	var state domain.OnboardingState
	if err := storage.GetJSON(ctx, r.store, keyOnboardingPrefix+userID, &state); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrOnboardingNotStarted
		}
		return nil, err
	}
	return &state, nil
}

func (r *onboardingRepository) Save(ctx context.Context, state *domain.OnboardingState) error {
	state.UpdatedAt = time.Now().UTC()
	return storage.SetJSON(ctx, r.store, keyOnboardingPrefix+state.UserID, state)
}

func (r *onboardingRepository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, keyOnboardingPrefix+userID)
}
