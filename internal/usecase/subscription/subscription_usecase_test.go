package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository/kv"
	"github.com/qupid-app/qupid-backend/internal/storage"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
)

var now = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newUseCase(delay time.Duration) (*SubscriptionUseCase, *usage.Gate) {
	store := storage.NewMemoryStore()
	subs := kv.NewSubscriptionRepository(store)
	gate := usage.NewGate(kv.NewUsageRepository(store), subs, time.UTC, zap.NewNop())

	uc := NewSubscriptionUseCase(subs, gate, delay, zap.NewNop())
	uc.now = func() time.Time { return now }
	return uc, gate
}

func TestGet_DefaultsToFree(t *testing.T) {
	uc, _ := newUseCase(0)

	status, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.TierFree, status.Tier)
	assert.Nil(t, status.ExpiresAt)
	assert.Equal(t, 5, status.Features.DailySuggestions)
	assert.Equal(t, 3, status.Features.MessagesPerDay)
}

func TestUpgrade(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(time.Millisecond)

	status, err := uc.Upgrade(ctx, "u1", "pioneer")
	require.NoError(t, err)
	assert.Equal(t, domain.TierPioneer, status.Tier)
	require.NotNil(t, status.ExpiresAt)
	assert.Equal(t, now.Add(30*24*time.Hour), *status.ExpiresAt)
	assert.True(t, status.Features.HasBoosts)
	assert.Equal(t, domain.Unlimited, status.Features.MessagesPerDay)

	stored, err := uc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, status.Tier, stored.Tier)

	status, err = uc.Upgrade(ctx, "u1", "free")
	require.NoError(t, err)
	assert.Nil(t, status.ExpiresAt, "downgrade recomputes the whole status")
	assert.False(t, status.Features.HasBoosts)
	assert.Equal(t, domain.FeaturesForTier(domain.TierFree), status.Features)
}

func TestUpgrade_InvalidTier(t *testing.T) {
	uc, _ := newUseCase(0)

	_, err := uc.Upgrade(context.Background(), "u1", "platinum")
	assert.ErrorIs(t, err, domain.ErrInvalidTier)
}

func TestUpgrade_CancelledPayment(t *testing.T) {
	uc, _ := newUseCase(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Upgrade(ctx, "u1", "premium")
	assert.ErrorIs(t, err, context.Canceled)

	status, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.TierFree, status.Tier, "a cancelled payment must not change the tier")
}

func TestCheckUsage(t *testing.T) {
	ctx := context.Background()
	uc, gate := newUseCase(0)

	for i := 0; i < 3; i++ {
		require.NoError(t, gate.RecordUsage(ctx, "u1", domain.UsageMessages, now))
	}

	report := uc.CheckUsage(ctx, "u1")
	assert.Equal(t, "2026-10-19", report.Date)
	assert.Equal(t, 3, report.MessagesUsed)
	assert.False(t, report.CanSendMessages)
	assert.True(t, report.CanUseSuggestions)

	_, err := uc.Upgrade(ctx, "u1", "premium")
	require.NoError(t, err)

	report = uc.CheckUsage(ctx, "u1")
	assert.True(t, report.CanSendMessages)
	assert.Equal(t, domain.Unlimited, report.MessagesLimit)
}
