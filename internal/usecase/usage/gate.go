package usage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
)

// Gate decides whether a quota-limited action is allowed today and keeps the
// per-day counters. Counters are keyed by calendar date in the gate's
// location; a new day simply starts from an empty record.
type Gate struct {
	usageRepo        repository.UsageRepository
	subscriptionRepo repository.SubscriptionRepository
	location         *time.Location
	logger           *zap.Logger

	// serializes read-modify-write of counters within this process
	mu sync.Mutex
}

func NewGate(
	usageRepo repository.UsageRepository,
	subscriptionRepo repository.SubscriptionRepository,
	location *time.Location,
	logger *zap.Logger,
) *Gate {
	if location == nil {
		location = time.Local
	}
	return &Gate{
		usageRepo:        usageRepo,
		subscriptionRepo: subscriptionRepo,
		location:         location,
		logger:           logger,
	}
}

// Report is the combined usage view shown to clients.
type Report struct {
	Date              string `json:"date"`
	SuggestionsUsed   int    `json:"suggestions_used"`
	MessagesUsed      int    `json:"messages_used"`
	SuggestionsLimit  int    `json:"suggestions_limit"`
	MessagesLimit     int    `json:"messages_limit"`
	CanUseSuggestions bool   `json:"can_use_suggestions"`
	CanSendMessages   bool   `json:"can_send_messages"`
}

func (g *Gate) DateKey(date time.Time) string {
	return domain.DateKey(date, g.location)
}

// Features returns the entitlements of the user's tier, falling back to the
// free tier when no subscription is stored or it cannot be read.
func (g *Gate) Features(ctx context.Context, userID string) domain.Features {
	status, err := g.subscriptionRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrSubscriptionNotFound) {
			g.logger.Warn("subscription read failed, using free tier",
				zap.String("user_id", userID), zap.Error(err))
		}
		return domain.FeaturesForTier(domain.TierFree)
	}
	return status.Features
}

// CurrentUsage returns the counters of the given day. Unreadable records count
// as no usage.
func (g *Gate) CurrentUsage(ctx context.Context, userID string, date time.Time) domain.DailyUsage {
	day := g.DateKey(date)
	usage, err := g.usageRepo.Get(ctx, userID, day)
	if err != nil {
		g.logger.Warn("usage read failed, treating as empty",
			zap.String("user_id", userID), zap.String("date", day), zap.Error(err))
		return domain.DailyUsage{}
	}
	return usage
}

// CanPerform reports whether one more action of kind is allowed on date.
func (g *Gate) CanPerform(ctx context.Context, userID string, kind domain.UsageKind, date time.Time) bool {
	limit := g.Features(ctx, userID).Limit(kind)
	return allows(limit, g.CurrentUsage(ctx, userID, date).Count(kind))
}

// RecordUsage increments the counter of kind on date. Callers record exactly
// once per allowed action.
func (g *Gate) RecordUsage(ctx context.Context, userID string, kind domain.UsageKind, date time.Time) error {
	if _, err := domain.ParseUsageKind(string(kind)); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.record(ctx, userID, kind, date)
}

// TryPerform checks the quota and records the action when allowed.
func (g *Gate) TryPerform(ctx context.Context, userID string, kind domain.UsageKind, date time.Time) error {
	if _, err := domain.ParseUsageKind(string(kind)); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.CanPerform(ctx, userID, kind, date) {
		return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, kind)
	}
	return g.record(ctx, userID, kind, date)
}

func (g *Gate) Report(ctx context.Context, userID string, date time.Time) Report {
	features := g.Features(ctx, userID)
	usage := g.CurrentUsage(ctx, userID, date)

	return Report{
		Date:              g.DateKey(date),
		SuggestionsUsed:   usage.Suggestions,
		MessagesUsed:      usage.Messages,
		SuggestionsLimit:  features.DailySuggestions,
		MessagesLimit:     features.MessagesPerDay,
		CanUseSuggestions: allows(features.DailySuggestions, usage.Suggestions),
		CanSendMessages:   allows(features.MessagesPerDay, usage.Messages),
	}
}

func (g *Gate) record(ctx context.Context, userID string, kind domain.UsageKind, date time.Time) error {
	day := g.DateKey(date)
	usage := g.CurrentUsage(ctx, userID, date)
	usage.Increment(kind)

	if err := g.usageRepo.Save(ctx, userID, day, usage); err != nil {
		return fmt.Errorf("failed to record %s usage: %w", kind, err)
	}
	return nil
}

func allows(limit, used int) bool {
	return limit == domain.Unlimited || used < limit
}
