package swipe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/repository/kv"
	"github.com/qupid-app/qupid-backend/internal/storage"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
)

var now = time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)

type fixture struct {
	uc      *SwipeUseCase
	shown   repository.SuggestionRepository
	matches repository.MatchRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	profiles := kv.NewProfileRepository(store)
	for _, id := range []string{"alice", "bob", "carol"} {
		p := domain.NewDefaultProfile(id)
		p.DisplayName = id
		p.OnboardingComplete = true
		require.NoError(t, profiles.Save(context.Background(), p))
	}

	shown := kv.NewSuggestionRepository(store)
	matches := kv.NewMatchRepository(store)
	gate := usage.NewGate(kv.NewUsageRepository(store), kv.NewSubscriptionRepository(store), time.UTC, zap.NewNop())

	uc := NewSwipeUseCase(kv.NewSwipeRepository(store), matches, profiles, shown, gate, zap.NewNop())
	uc.now = func() time.Time { return now }
	return &fixture{uc: uc, shown: shown, matches: matches}
}

func (f *fixture) serve(t *testing.T, userID, shownID string) {
	t.Helper()
	require.NoError(t, f.shown.MarkShown(context.Background(), userID, "2026-10-19", shownID))
}

func TestSwipe_RequiresServedSuggestion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Like(ctx, "alice", &SwipeRequest{SwipedUserID: "bob"})
	assert.ErrorIs(t, err, domain.ErrNotSuggested)

	require.NoError(t, f.shown.MarkShown(ctx, "alice", "2026-10-18", "bob"))
	_, err = f.uc.Skip(ctx, "alice", &SwipeRequest{SwipedUserID: "bob"})
	assert.ErrorIs(t, err, domain.ErrNotSuggested, "yesterday's suggestions cannot be swiped today")

	_, err = f.uc.Like(ctx, "alice", &SwipeRequest{SwipedUserID: "alice"})
	assert.ErrorIs(t, err, domain.ErrCannotSwipeSelf)

	_, err = f.uc.Like(ctx, "alice", &SwipeRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSwipe_OncePerProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serve(t, "alice", "bob")

	resp, err := f.uc.Skip(ctx, "alice", &SwipeRequest{SwipedUserID: "bob"})
	require.NoError(t, err)
	assert.False(t, resp.IsMatch)
	assert.False(t, resp.Swipe.IsLike)

	_, err = f.uc.Like(ctx, "alice", &SwipeRequest{SwipedUserID: "bob"})
	assert.ErrorIs(t, err, domain.ErrSwipeAlreadyExists)
}

func TestLike_MutualCreatesMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serve(t, "alice", "bob")
	f.serve(t, "bob", "alice")

	first, err := f.uc.Like(ctx, "alice", &SwipeRequest{SwipedUserID: "bob"})
	require.NoError(t, err)
	assert.False(t, first.IsMatch, "a one-sided like is not a match")

	second, err := f.uc.Like(ctx, "bob", &SwipeRequest{SwipedUserID: "alice"})
	require.NoError(t, err)
	require.True(t, second.IsMatch)
	assert.Equal(t, "alice:bob", second.Match.ID)
	require.NotNil(t, second.MatchedUser)
	assert.Equal(t, "alice", second.MatchedUser.DisplayName)

	for _, user := range []string{"alice", "bob"} {
		list, err := f.uc.ListMatches(ctx, user)
		require.NoError(t, err)
		require.Len(t, list, 1, user)
		assert.Equal(t, "alice:bob", list[0].MatchID)
	}

	carol, err := f.uc.ListMatches(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, carol)
}

func TestLike_SkipBlocksMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serve(t, "alice", "carol")
	f.serve(t, "carol", "alice")

	_, err := f.uc.Skip(ctx, "carol", &SwipeRequest{SwipedUserID: "alice"})
	require.NoError(t, err)

	resp, err := f.uc.Like(ctx, "alice", &SwipeRequest{SwipedUserID: "carol"})
	require.NoError(t, err)
	assert.False(t, resp.IsMatch)

	_, err = f.matches.GetByUsers(ctx, "alice", "carol")
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestLike_ConcurrentMutualLikesMatchOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serve(t, "alice", "bob")
	f.serve(t, "bob", "alice")

	var wg sync.WaitGroup
	results := make([]*SwipeResponse, 2)
	errs := make([]error, 2)
	for i, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		wg.Add(1)
		go func(i int, swiper, swiped string) {
			defer wg.Done()
			results[i], errs[i] = f.uc.Like(ctx, swiper, &SwipeRequest{SwipedUserID: swiped})
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, results[0].IsMatch, results[1].IsMatch, "exactly one like completes the match")

	list, err := f.matches.GetUserMatches(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
