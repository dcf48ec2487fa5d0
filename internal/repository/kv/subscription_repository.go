package kv

import (
	"context"
	"errors"
	"sync"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

type subscriptionRepository struct {
	store storage.Store
}

func NewSubscriptionRepository(store storage.Store) repository.SubscriptionRepository {
	return &subscriptionRepository{store: store}
}

func (r *subscriptionRepository) Get(ctx context.Context, userID string) (*domain.SubscriptionStatus, error) {
	var status domain.SubscriptionStatus
	if err := storage.GetJSON(ctx, r.store, keySubscriptionPrefix+userID, &status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *subscriptionRepository) Save(ctx context.Context, userID string, status *domain.SubscriptionStatus) error {
	return storage.SetJSON(ctx, r.store, keySubscriptionPrefix+userID, status)
}

type usageRepository struct {
	store storage.Store
}

func NewUsageRepository(store storage.Store) repository.UsageRepository {
	return &usageRepository{store: store}
}

// Get returns zero counters for a day with no record.
func (r *usageRepository) Get(ctx context.Context, userID, date string) (domain.DailyUsage, error) {
	var usage domain.DailyUsage
	if err := storage.GetJSON(ctx, r.store, usageKey(userID, date), &usage); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.DailyUsage{}, nil
		}
		return domain.DailyUsage{}, err
	}
	return usage, nil
}

func (r *usageRepository) Save(ctx context.Context, userID, date string, usage domain.DailyUsage) error {
	return storage.SetJSON(ctx, r.store, usageKey(userID, date), usage)
}

// messageRepository keeps a conversation as one JSON list.
type messageRepository struct {
	store storage.Store
	mu    sync.Mutex
}

func NewMessageRepository(store storage.Store) repository.MessageRepository {
	return &messageRepository{store: store}
}

func (r *messageRepository) Append(ctx context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.List(ctx, message.ConversationID)
	if err != nil {
		return err
	}
	messages = append(messages, message)
	return storage.SetJSON(ctx, r.store, keyMessagesPrefix+message.ConversationID, messages)
}

func (r *messageRepository) List(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := storage.GetJSON(ctx, r.store, keyMessagesPrefix+conversationID, &messages)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return messages, nil
}
