package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
)

type SubscriptionUseCase struct {
	subscriptionRepo repository.SubscriptionRepository
	gate             *usage.Gate
	paymentDelay     time.Duration
	logger           *zap.Logger
	now              func() time.Time
}

func NewSubscriptionUseCase(
	subscriptionRepo repository.SubscriptionRepository,
	gate *usage.Gate,
	paymentDelay time.Duration,
	logger *zap.Logger,
) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		gate:             gate,
		paymentDelay:     paymentDelay,
		logger:           logger,
		now:              time.Now,
	}
}

// UpgradeRequest represents a tier change
type UpgradeRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// Get returns the stored subscription or the free tier.
func (uc *SubscriptionUseCase) Get(ctx context.Context, userID string) (*domain.SubscriptionStatus, error) {
	status, err := uc.subscriptionRepo.Get(ctx, userID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, domain.ErrSubscriptionNotFound) {
		uc.logger.Warn("subscription read failed, using free tier",
			zap.String("user_id", userID), zap.Error(err))
	}
	return domain.NewSubscriptionStatus(domain.TierFree, uc.now()), nil
}

// Upgrade simulates the payment and switches the user to tier. The status is
// rebuilt from the tier table, so moving to free clears the expiry.
func (uc *SubscriptionUseCase) Upgrade(ctx context.Context, userID, tier string) (*domain.SubscriptionStatus, error) {
	t, err := domain.ParseTier(tier)
	if err != nil {
		return nil, err
	}

	if err := uc.simulatePayment(ctx); err != nil {
		return nil, err
	}

	status := domain.NewSubscriptionStatus(t, uc.now())
	if err := uc.subscriptionRepo.Save(ctx, userID, status); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	uc.logger.Info("subscription changed", zap.String("user_id", userID), zap.String("tier", string(t)))
	return status, nil
}

// CheckUsage returns today's counters together with the tier limits.
func (uc *SubscriptionUseCase) CheckUsage(ctx context.Context, userID string) usage.Report {
	return uc.gate.Report(ctx, userID, uc.now())
}

func (uc *SubscriptionUseCase) simulatePayment(ctx context.Context) error {
	if uc.paymentDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(uc.paymentDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
