package onboarding

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
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

type fakeVerifier struct {
	ok    bool
	calls int
}

func (f *fakeVerifier) VerifyIdentity(context.Context, string, string) (bool, error) {
	f.calls++
	return f.ok, nil
}

type countingProfileRepo struct {
	repository.ProfileRepository
	mu    sync.Mutex
	saves int
}

func (r *countingProfileRepo) Save(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	r.saves++
	r.mu.Unlock()
	return r.ProfileRepository.Save(ctx, p)
}

// slowOnboardingRepo widens the gap between loading and saving a session.
type slowOnboardingRepo struct {
	repository.OnboardingRepository
	delay time.Duration
}

func (r *slowOnboardingRepo) Get(ctx context.Context, userID string) (*domain.OnboardingState, error) {
	time.Sleep(r.delay)
	return r.OnboardingRepository.Get(ctx, userID)
}

// gatedVerifier blocks inside VerifyIdentity until released.
type gatedVerifier struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedVerifier) VerifyIdentity(context.Context, string, string) (bool, error) {
	close(g.started)
	<-g.release
	return true, nil
}

func newUseCase(t *testing.T, verifier IdentityVerifier) (*OnboardingUseCase, *countingProfileRepo) {
	t.Helper()
	store := storage.NewMemoryStore()
	profiles := &countingProfileRepo{ProfileRepository: kv.NewProfileRepository(store)}
	uc := NewOnboardingUseCase(kv.NewOnboardingRepository(store), profiles, verifier, validation.New(), zap.NewNop())
	uc.now = func() time.Time { return today }
	return uc, profiles
}

func TestOnboardingUseCase_FullFlow(t *testing.T) {
	ctx := context.Background()
	verifier := &fakeVerifier{ok: true}
	uc, profiles := newUseCase(t, verifier)

	state, err := uc.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepWelcome, state.Step)

	_, err = uc.Advance(ctx, "u1", &StepInput{})
	require.NoError(t, err)
	_, err = uc.Advance(ctx, "u1", &StepInput{BirthDate: "2000-02-29"})
	require.NoError(t, err)

	_, err = uc.Advance(ctx, "u1", &StepInput{})
	assert.ErrorIs(t, err, domain.ErrIdentityNotVerified)

	_, err = uc.VerifyIdentity(ctx, "u1", &VerifyIdentityRequest{Selfie: "selfie.jpg", Document: "id.jpg"})
	require.NoError(t, err)
	assert.Equal(t, 1, verifier.calls)

	for _, in := range []*StepInput{{}, {}, profileInput(), interestsInput()} {
		_, err = uc.Advance(ctx, "u1", in)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, profiles.saves)

	state, err = uc.Advance(ctx, "u1", &StepInput{})
	require.NoError(t, err)
	assert.Equal(t, StepComplete, state.Step)
	assert.True(t, state.Finalized)
	assert.Equal(t, 1, profiles.saves)

	profile, err := profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, profile.OnboardingComplete)
	assert.Equal(t, domain.VerificationVerified, profile.VerificationStatus)
	assert.Equal(t, 26, profile.Age)
	assert.Equal(t, "Sam", profile.DisplayName)

	_, err = uc.Advance(ctx, "u1", &StepInput{})
	assert.ErrorIs(t, err, domain.ErrOnboardingFinalized)
	assert.Equal(t, 1, profiles.saves, "finalized profile must be persisted once")
}

func TestOnboardingUseCase_StatePersistsAcrossCalls(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, &fakeVerifier{ok: true})

	_, err := uc.Advance(ctx, "u1", &StepInput{})
	require.NoError(t, err)

	state, err := uc.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepAgeVerification, state.Step)

	state, err = uc.Retreat(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepWelcome, state.Step)

	state, err = uc.Retreat(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, state.Index)

	other, err := uc.State(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", other.Draft.UserID)
}

func TestOnboardingUseCase_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected", func(t *testing.T) {
		uc, _ := newUseCase(t, &fakeVerifier{ok: false})
		_, err := uc.VerifyIdentity(ctx, "u1", &VerifyIdentityRequest{Selfie: "a", Document: "b"})
		assert.ErrorIs(t, err, domain.ErrIdentityNotVerified)
	})

	t.Run("missing input", func(t *testing.T) {
		verifier := &fakeVerifier{ok: true}
		uc, _ := newUseCase(t, verifier)
		_, err := uc.VerifyIdentity(ctx, "u1", &VerifyIdentityRequest{Selfie: "a"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, verifier.calls)
	})
}

func TestOnboardingUseCase_Restart(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, &fakeVerifier{ok: true})

	_, err := uc.Advance(ctx, "u1", &StepInput{})
	require.NoError(t, err)

	state, err := uc.Restart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepWelcome, state.Step)
}

func TestOnboardingUseCase_ConcurrentAdvanceFinalizesOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sessions := kv.NewOnboardingRepository(store)
	profiles := &countingProfileRepo{ProfileRepository: kv.NewProfileRepository(store)}

	v := validation.New()
	seq := NewSequencer("u1", DefaultSteps(v), v)
	walk(t, seq, StepPreferences)
	require.NoError(t, sessions.Save(ctx, seq.State(today)))

	uc := NewOnboardingUseCase(&slowOnboardingRepo{OnboardingRepository: sessions, delay: 20 * time.Millisecond},
		profiles, &fakeVerifier{ok: true}, v, zap.NewNop())
	uc.now = func() time.Time { return today }

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Advance(ctx, "u1", &StepInput{})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrOnboardingFinalized)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, profiles.saves, "finalize must persist once")
}

func TestOnboardingUseCase_VerifyIdentityKeepsConcurrentChanges(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sessions := kv.NewOnboardingRepository(store)

	v := validation.New()
	seq := NewSequencer("u1", DefaultSteps(v), v)
	walk(t, seq, StepIdentityVerification)
	require.NoError(t, sessions.Save(ctx, seq.State(today)))

	verifier := &gatedVerifier{started: make(chan struct{}), release: make(chan struct{})}
	uc := NewOnboardingUseCase(sessions, kv.NewProfileRepository(store), verifier, v, zap.NewNop())
	uc.now = func() time.Time { return today }

	done := make(chan error, 1)
	go func() {
		_, err := uc.VerifyIdentity(ctx, "u1", &VerifyIdentityRequest{Selfie: "a", Document: "b"})
		done <- err
	}()

	<-verifier.started
	state, err := uc.Retreat(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, StepAgeVerification, state.Step)

	close(verifier.release)
	require.NoError(t, <-done)

	state, err = uc.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepAgeVerification, state.Step, "the retreat made during verification is kept")
	assert.True(t, state.Draft.IdentityVerified)
}

func TestOnboardingUseCase_SubmitAge(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, &fakeVerifier{ok: true})

	_, err := uc.SubmitAge(ctx, "u1", "1995-04-02")
	assert.ErrorIs(t, err, domain.ErrWrongStep)

	state, err := uc.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StepWelcome, state.Step, "a birth date does not advance other steps")

	_, err = uc.Advance(ctx, "u1", &StepInput{})
	require.NoError(t, err)

	_, err = uc.SubmitAge(ctx, "u1", "2010-01-01")
	assert.ErrorIs(t, err, domain.ErrUnderage)

	state, err = uc.SubmitAge(ctx, "u1", "1995-04-02")
	require.NoError(t, err)
	assert.Equal(t, StepIdentityVerification, state.Step)
	assert.Equal(t, 31, state.Draft.Age)

	_, err = uc.SubmitAge(ctx, "u1", "1995-04-02")
	assert.ErrorIs(t, err, domain.ErrWrongStep)
}
