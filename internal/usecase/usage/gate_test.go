package usage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository/kv"
	"github.com/qupid-app/qupid-backend/internal/storage"
)

var day = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newGate(t *testing.T, tier domain.Tier) *Gate {
	t.Helper()
	store := storage.NewMemoryStore()
	subs := kv.NewSubscriptionRepository(store)
	if tier != "" {
		require.NoError(t, subs.Save(context.Background(), "u1", domain.NewSubscriptionStatus(tier, day)))
	}
	return NewGate(kv.NewUsageRepository(store), subs, time.UTC, zap.NewNop())
}

func TestGate_FreeTierMessages(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, domain.TierFree)

	assert.Equal(t, domain.DailyUsage{}, g.CurrentUsage(ctx, "u1", day))

	for i := 0; i < 3; i++ {
		require.True(t, g.CanPerform(ctx, "u1", domain.UsageMessages, day))
		require.NoError(t, g.RecordUsage(ctx, "u1", domain.UsageMessages, day))
	}

	assert.False(t, g.CanPerform(ctx, "u1", domain.UsageMessages, day))
	assert.Equal(t, 3, g.CurrentUsage(ctx, "u1", day).Messages)

	err := g.TryPerform(ctx, "u1", domain.UsageMessages, day)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, 3, g.CurrentUsage(ctx, "u1", day).Messages, "blocked action must not be recorded")
}

func TestGate_NoStoredSubscriptionMeansFree(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, "")

	assert.Equal(t, domain.FeaturesForTier(domain.TierFree), g.Features(ctx, "u1"))
}

func TestGate_UnlimitedTier(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, domain.TierPremium)

	for i := 0; i < 50; i++ {
		require.NoError(t, g.TryPerform(ctx, "u1", domain.UsageMessages, day))
	}
	assert.True(t, g.CanPerform(ctx, "u1", domain.UsageMessages, day))
	assert.Equal(t, 50, g.CurrentUsage(ctx, "u1", day).Messages)
}

func TestGate_SuggestionCap(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, domain.TierFree)

	for i := 0; i < 5; i++ {
		require.NoError(t, g.TryPerform(ctx, "u1", domain.UsageSuggestions, day))
	}
	assert.False(t, g.CanPerform(ctx, "u1", domain.UsageSuggestions, day))
	assert.True(t, g.CanPerform(ctx, "u1", domain.UsageMessages, day))
}

func TestGate_DaysDoNotLeak(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, domain.TierFree)

	for i := 0; i < 3; i++ {
		require.NoError(t, g.RecordUsage(ctx, "u1", domain.UsageMessages, day))
	}
	tomorrow := day.AddDate(0, 0, 1)

	assert.False(t, g.CanPerform(ctx, "u1", domain.UsageMessages, day))
	assert.True(t, g.CanPerform(ctx, "u1", domain.UsageMessages, tomorrow))
	assert.Equal(t, domain.DailyUsage{}, g.CurrentUsage(ctx, "u1", tomorrow))
}

func TestGate_DayBoundaryFollowsLocation(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	tokyo := time.FixedZone("JST", 9*60*60)
	g := NewGate(kv.NewUsageRepository(store), kv.NewSubscriptionRepository(store), tokyo, zap.NewNop())

	// 20:00 UTC is already the next morning in Tokyo
	late := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-20", g.DateKey(late))

	require.NoError(t, g.RecordUsage(ctx, "u1", domain.UsageMessages, late))
	nextMorning := time.Date(2026, 10, 20, 8, 0, 0, 0, tokyo)
	assert.Equal(t, 1, g.CurrentUsage(ctx, "u1", nextMorning).Messages)
}

func TestGate_RejectsUnknownKind(t *testing.T) {
	g := newGate(t, domain.TierFree)
	err := g.RecordUsage(context.Background(), "u1", domain.UsageKind("likes"), day)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGate_Report(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, domain.TierFree)
	require.NoError(t, g.RecordUsage(ctx, "u1", domain.UsageMessages, day))

	r := g.Report(ctx, "u1", day)
	assert.Equal(t, Report{
		Date:              "2026-10-19",
		MessagesUsed:      1,
		SuggestionsLimit:  5,
		MessagesLimit:     3,
		CanUseSuggestions: true,
		CanSendMessages:   true,
	}, r)
}

func TestGate_ConcurrentTryPerformNeverOvershoots(t *testing.T) {
	ctx := context.Background()
	g := newGate(t, domain.TierFree)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryPerform(ctx, "u1", domain.UsageMessages, day) == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, allowed)
	assert.Equal(t, 3, g.CurrentUsage(ctx, "u1", day).Messages)
}

type brokenUsageRepo struct{}

func (brokenUsageRepo) Get(context.Context, string, string) (domain.DailyUsage, error) {
	return domain.DailyUsage{}, errors.New("disk on fire")
}

func (brokenUsageRepo) Save(context.Context, string, string, domain.DailyUsage) error {
	return errors.New("disk on fire")
}

func TestGate_ReadFailureCountsAsNoUsage(t *testing.T) {
	ctx := context.Background()
	g := NewGate(brokenUsageRepo{}, kv.NewSubscriptionRepository(storage.NewMemoryStore()), time.UTC, zap.NewNop())

	assert.Equal(t, domain.DailyUsage{}, g.CurrentUsage(ctx, "u1", day))
	assert.True(t, g.CanPerform(ctx, "u1", domain.UsageMessages, day))
	assert.Error(t, g.RecordUsage(ctx, "u1", domain.UsageMessages, day))
}
