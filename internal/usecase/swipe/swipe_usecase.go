package swipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
)

type SwipeUseCase struct {
	swipeRepo      repository.SwipeRepository
	matchRepo      repository.MatchRepository
	profileRepo    repository.ProfileRepository
	suggestionRepo repository.SuggestionRepository
	gate           *usage.Gate
	logger         *zap.Logger
	now            func() time.Time

	// mu serializes swipe creation with the mutual like check.
	mu sync.Mutex
}

func NewSwipeUseCase(
	swipeRepo repository.SwipeRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	suggestionRepo repository.SuggestionRepository,
	gate *usage.Gate,
	logger *zap.Logger,
) *SwipeUseCase {
	return &SwipeUseCase{
		swipeRepo:      swipeRepo,
		matchRepo:      matchRepo,
		profileRepo:    profileRepo,
		suggestionRepo: suggestionRepo,
		gate:           gate,
		logger:         logger,
		now:            time.Now,
	}
}

// SwipeRequest represents a like or skip on a served suggestion
type SwipeRequest struct {
	SwipedUserID string `json:"swiped_user_id" binding:"required"`
}

// SwipeResponse represents swipe result
type SwipeResponse struct {
	IsMatch     bool                `json:"is_match"`
	Swipe       *domain.Swipe       `json:"swipe"`
	Match       *domain.Match       `json:"match,omitempty"`
	MatchedUser *MatchedUserProfile `json:"matched_user,omitempty"`
}

// MatchedUserProfile represents matched user info
type MatchedUserProfile struct {
	UserID      string        `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Pronouns    string        `json:"pronouns"`
	Age         int           `json:"age"`
	Bio         string        `json:"bio"`
	CityBucket  string        `json:"city_bucket"`
	Avatar      domain.Avatar `json:"avatar"`
}

// MatchResponse is one entry of the matches list
type MatchResponse struct {
	MatchID   string              `json:"match_id"`
	User      *MatchedUserProfile `json:"user"`
	MatchedAt time.Time           `json:"matched_at"`
}

// Like records a like on a profile suggested today. A like returned by the
// other user creates a match.
func (uc *SwipeUseCase) Like(ctx context.Context, swiperID string, req *SwipeRequest) (*SwipeResponse, error) {
	return uc.swipe(ctx, swiperID, req, true)
}

// Skip records that the user passed on a profile suggested today.
func (uc *SwipeUseCase) Skip(ctx context.Context, swiperID string, req *SwipeRequest) (*SwipeResponse, error) {
	return uc.swipe(ctx, swiperID, req, false)
}

func (uc *SwipeUseCase) swipe(ctx context.Context, swiperID string, req *SwipeRequest, isLike bool) (*SwipeResponse, error) {
	if req.SwipedUserID == "" {
		return nil, domain.NewValidationError("swiped_user_id", "is required")
	}
	if swiperID == req.SwipedUserID {
		return nil, domain.ErrCannotSwipeSelf
	}

	// The quota was charged when the suggestion was served.
	now := uc.now()
	if err := uc.checkServed(ctx, swiperID, req.SwipedUserID, now); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	swipe := &domain.Swipe{
		SwiperID:  swiperID,
		SwipedID:  req.SwipedUserID,
		IsLike:    isLike,
		CreatedAt: now.UTC(),
	}
	if err := uc.swipeRepo.Create(ctx, swipe); err != nil {
		if errors.Is(err, domain.ErrSwipeAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create swipe: %w", err)
	}

	response := &SwipeResponse{Swipe: swipe}
	if !isLike {
		return response, nil
	}

	back, err := uc.swipeRepo.GetByUsers(ctx, req.SwipedUserID, swiperID)
	if errors.Is(err, domain.ErrSwipeNotFound) || (err == nil && !back.IsLike) {
		return response, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}

	match, err := uc.createMatch(ctx, swiperID, req.SwipedUserID, now)
	if err != nil {
		return nil, err
	}
	response.IsMatch = true
	response.Match = match

	matchedUser, err := uc.getMatchedUserProfile(ctx, req.SwipedUserID)
	if err != nil {
		uc.logger.Warn("matched user profile unavailable",
			zap.String("user_id", req.SwipedUserID), zap.Error(err))
	} else {
		response.MatchedUser = matchedUser
	}

	uc.logger.Info("match created",
		zap.String("match_id", match.ID),
		zap.String("user1_id", match.User1ID),
		zap.String("user2_id", match.User2ID))
	return response, nil
}

// checkServed reports ErrNotSuggested unless the feed showed swipedID to
// swiperID today.
func (uc *SwipeUseCase) checkServed(ctx context.Context, swiperID, swipedID string, now time.Time) error {
	shown, err := uc.suggestionRepo.ListShown(ctx, swiperID, uc.gate.DateKey(now))
	if err != nil {
		return fmt.Errorf("failed to load shown suggestions: %w", err)
	}
	for _, id := range shown {
		if id == swipedID {
			return nil
		}
	}
	return domain.ErrNotSuggested
}

func (uc *SwipeUseCase) createMatch(ctx context.Context, user1ID, user2ID string, now time.Time) (*domain.Match, error) {
	existing, err := uc.matchRepo.GetByUsers(ctx, user1ID, user2ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to look up match: %w", err)
	}

	match := domain.NewMatch(user1ID, user2ID, now.UTC())
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (uc *SwipeUseCase) getMatchedUserProfile(ctx context.Context, userID string) (*MatchedUserProfile, error) {
	profile, err := uc.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MatchedUserProfile{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Pronouns:    profile.Pronouns,
		Age:         profile.Age,
		Bio:         profile.Bio,
		CityBucket:  profile.CityBucket,
		Avatar:      profile.Avatar,
	}, nil
}

// ListMatches returns the user's matches, newest first.
func (uc *SwipeUseCase) ListMatches(ctx context.Context, userID string) ([]*MatchResponse, error) {
	matches, err := uc.matchRepo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	responses := make([]*MatchResponse, 0, len(matches))
	for _, match := range matches {
		otherID, ok := match.GetOtherUserID(userID)
		if !ok {
			continue
		}
		user, err := uc.getMatchedUserProfile(ctx, otherID)
		if err != nil {
			uc.logger.Warn("skipping match without profile",
				zap.String("match_id", match.ID), zap.Error(err))
			continue
		}
		responses = append(responses, &MatchResponse{
			MatchID:   match.ID,
			User:      user,
			MatchedAt: match.CreatedAt,
		})
	}
	return responses, nil
}
