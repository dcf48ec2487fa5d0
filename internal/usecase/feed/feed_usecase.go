package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
)

type FeedUseCase struct {
	profileRepo       repository.ProfileRepository
	suggestionRepo    repository.SuggestionRepository
	swipeRepo         repository.SwipeRepository
	gate              *usage.Gate
	recordSuggestions bool
	logger            *zap.Logger
	now               func() time.Time
}

// NewFeedUseCase creates the feed. recordSuggestions controls whether served
// suggestions count against the daily quota.
func NewFeedUseCase(
	profileRepo repository.ProfileRepository,
	suggestionRepo repository.SuggestionRepository,
	swipeRepo repository.SwipeRepository,
	gate *usage.Gate,
	recordSuggestions bool,
	logger *zap.Logger,
) *FeedUseCase {
	return &FeedUseCase{
		profileRepo:       profileRepo,
		suggestionRepo:    suggestionRepo,
		swipeRepo:         swipeRepo,
		gate:              gate,
		recordSuggestions: recordSuggestions,
		logger:            logger,
		now:               time.Now,
	}
}

// SuggestionResponse represents a suggested profile
type SuggestionResponse struct {
	UserID             string        `json:"user_id"`
	DisplayName        string        `json:"display_name"`
	Pronouns           string        `json:"pronouns"`
	Age                int           `json:"age"`
	Bio                string        `json:"bio"`
	Interests          []string      `json:"interests"`
	Values             []string      `json:"values"`
	Avatar             domain.Avatar `json:"avatar"`
	CityBucket         string        `json:"city_bucket"`
	IdentityVerified   bool          `json:"identity_verified"`
	SharedInterests    []string      `json:"shared_interests"`
	CompatibilityScore int           `json:"compatibility_score"`
}

type scoredCandidate struct {
	profile *domain.Profile
	score   float64
}

// NextSuggestion returns the best matching profile not yet suggested today
// and never swiped.
func (uc *FeedUseCase) NextSuggestion(ctx context.Context, userID string) (*SuggestionResponse, error) {
	now := uc.now()
	if !uc.gate.CanPerform(ctx, userID, domain.UsageSuggestions, now) {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, domain.UsageSuggestions)
	}

	me, err := uc.profileRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		me = domain.NewDefaultProfile(userID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get current user profile: %w", err)
	}

	day := uc.gate.DateKey(now)
	shownIDs, err := uc.suggestionRepo.ListShown(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load shown suggestions: %w", err)
	}
	shown := make(map[string]struct{}, len(shownIDs))
	for _, id := range shownIDs {
		shown[id] = struct{}{}
	}

	swipes, err := uc.swipeRepo.ListBySwiper(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load swipes: %w", err)
	}
	for _, s := range swipes {
		shown[s.SwipedID] = struct{}{}
	}

	candidates, err := uc.profileRepo.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var scored []scoredCandidate
	for _, candidate := range candidates {
		if candidate.UserID == userID {
			continue
		}
		if _, ok := shown[candidate.UserID]; ok {
			continue
		}
		if !withinAgePreference(me.Preferences, candidate.Age) {
			continue
		}
		scored = append(scored, scoredCandidate{profile: candidate, score: compatibilityScore(me, candidate)})
	}

	if len(scored) == 0 {
		return nil, domain.ErrNoSuggestionsLeft
	}

	// Sort by score descending, ties by user id for a stable order
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].profile.UserID < scored[j].profile.UserID
	})
	best := scored[0]

	if uc.recordSuggestions {
		if err := uc.gate.TryPerform(ctx, userID, domain.UsageSuggestions, now); err != nil {
			return nil, err
		}
	}
	if err := uc.suggestionRepo.MarkShown(ctx, userID, day, best.profile.UserID); err != nil {
		return nil, fmt.Errorf("failed to remember suggestion: %w", err)
	}

	uc.logger.Debug("suggestion served",
		zap.String("user_id", userID),
		zap.String("suggested_user_id", best.profile.UserID),
		zap.Float64("score", best.score))

	return toResponse(me, best), nil
}

func withinAgePreference(prefs domain.Preferences, age int) bool {
	if prefs.AgeMin > 0 && age < prefs.AgeMin {
		return false
	}
	if prefs.AgeMax > 0 && age > prefs.AgeMax {
		return false
	}
	return true
}

// compatibilityScore returns 0..100: 60% shared interests, 40% shared values,
// both as Jaccard indexes.
func compatibilityScore(me, candidate *domain.Profile) float64 {
	return jaccard(me.Interests, candidate.Interests)*60 + jaccard(me.Values, candidate.Values)*40
}

func jaccard(a, b []string) float64 {
	common := len(intersect(a, b))
	union := len(unique(a)) + len(unique(b)) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(a))
	for _, s := range a {
		if _, ok := inB[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func unique(s []string) map[string]struct{} {
	m := make(map[string]struct{}, len(s))
	for _, v := range s {
		m[v] = struct{}{}
	}
	return m
}

func toResponse(me *domain.Profile, c scoredCandidate) *SuggestionResponse {
	p := c.profile
	shared := intersect(me.Interests, p.Interests)
	if shared == nil {
		shared = []string{}
	}
	return &SuggestionResponse{
		UserID:             p.UserID,
		DisplayName:        p.DisplayName,
		Pronouns:           p.Pronouns,
		Age:                p.Age,
		Bio:                p.Bio,
		Interests:          p.Interests,
		Values:             p.Values,
		Avatar:             p.Avatar,
		CityBucket:         p.CityBucket,
		IdentityVerified:   p.IdentityVerified,
		SharedInterests:    shared,
		CompatibilityScore: int(c.score + 0.5),
	}
}
