package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

// userRepository keeps every account in a single registered-users list.
type userRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewUserRepository(store storage.Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) load(ctx context.Context) ([]domain.RegisteredUser, error) {
	var users []domain.RegisteredUser
	err := storage.GetJSON(ctx, r.store, keyRegisteredUsers, &users)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Register(ctx context.Context, user *domain.RegisteredUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyRegistered
		}
	}

	users = append(users, *user)
	return storage.SetJSON(ctx, r.store, keyRegisteredUsers, users)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.RegisteredUser, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.RegisteredUser, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users[i].PasswordHash = hash
			return storage.SetJSON(ctx, r.store, keyRegisteredUsers, users)
		}
	}
	return fmt.Errorf("update password of %s: %w", id, domain.ErrAccountNotFound)
}
