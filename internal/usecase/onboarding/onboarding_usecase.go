package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
)

// IdentityVerifier checks a selfie against an identity document.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, selfie, document string) (bool, error)
}

type OnboardingUseCase struct {
	onboardingRepo repository.OnboardingRepository
	profileRepo    repository.ProfileRepository
	verifier       IdentityVerifier
	validate       *validator.Validate
	steps          []Step
	logger         *zap.Logger
	now            func() time.Time

	// sessions serializes read-modify-write of a user's onboarding session.
	sessions userLocks
}

func NewOnboardingUseCase(
	onboardingRepo repository.OnboardingRepository,
	profileRepo repository.ProfileRepository,
	verifier IdentityVerifier,
	v *validator.Validate,
	logger *zap.Logger,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		onboardingRepo: onboardingRepo,
		profileRepo:    profileRepo,
		verifier:       verifier,
		validate:       v,
		steps:          DefaultSteps(v),
		logger:         logger,
		now:            time.Now,
	}
}

// StateResponse is the onboarding session as shown to the client.
type StateResponse struct {
	Progress
	Draft domain.Profile `json:"draft"`
}

// VerifyIdentityRequest carries the captured selfie and identity document.
type VerifyIdentityRequest struct {
	Selfie   string `json:"selfie" binding:"required"`
	Document string `json:"document" binding:"required"`
}

// State returns the user's onboarding session, starting one if needed.
func (uc *OnboardingUseCase) State(ctx context.Context, userID string) (*StateResponse, error) {
	seq, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return response(seq), nil
}

// Advance submits the current step. When the flow reaches its final step the
// draft is finalized and saved as the user's profile.
func (uc *OnboardingUseCase) Advance(ctx context.Context, userID string, in *StepInput) (*StateResponse, error) {
	unlock := uc.sessions.lock(userID)
	defer unlock()

	seq, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.advance(ctx, userID, seq, in)
}

// SubmitAge submits the birth date. The session must be on the age step.
func (uc *OnboardingUseCase) SubmitAge(ctx context.Context, userID, birthDate string) (*StateResponse, error) {
	unlock := uc.sessions.lock(userID)
	defer unlock()

	seq, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seq.Finalized() {
		return nil, domain.ErrOnboardingFinalized
	}
	if step := seq.Current().Step; step != StepAgeVerification {
		return nil, fmt.Errorf("%w: %s", domain.ErrWrongStep, step)
	}
	return uc.advance(ctx, userID, seq, &StepInput{BirthDate: birthDate})
}

// advance runs one step on seq and persists the outcome. The caller holds the
// user's session lock.
func (uc *OnboardingUseCase) advance(ctx context.Context, userID string, seq *Sequencer, in *StepInput) (*StateResponse, error) {
	from := seq.Current().Step
	entered, err := seq.Advance(in, uc.now())
	if err != nil {
		return nil, err
	}

	if entered {
		profile, err := seq.Finalize()
		if err != nil {
			return nil, err
		}
		if err := uc.profileRepo.Save(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
		uc.logger.Info("onboarding completed", zap.String("user_id", userID))
	}

	if err := uc.save(ctx, seq); err != nil {
		return nil, err
	}

	uc.logger.Debug("onboarding advanced",
		zap.String("user_id", userID),
		zap.String("from", from),
		zap.String("to", seq.Current().Step))

	return response(seq), nil
}

// Retreat moves the session one step back.
func (uc *OnboardingUseCase) Retreat(ctx context.Context, userID string) (*StateResponse, error) {
	unlock := uc.sessions.lock(userID)
	defer unlock()

	seq, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seq.Finalized() {
		return nil, domain.ErrOnboardingFinalized
	}

	seq.Retreat()
	if err := uc.save(ctx, seq); err != nil {
		return nil, err
	}
	return response(seq), nil
}

// VerifyIdentity runs the identity check and records the result on the draft.
// The session is reloaded after the check.
func (uc *OnboardingUseCase) VerifyIdentity(ctx context.Context, userID string, req *VerifyIdentityRequest) (*StateResponse, error) {
	if strings.TrimSpace(req.Selfie) == "" || strings.TrimSpace(req.Document) == "" {
		return nil, domain.NewValidationError("selfie", "selfie and document are required")
	}

	seq, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seq.Finalized() {
		return nil, domain.ErrOnboardingFinalized
	}

	ok, err := uc.verifier.VerifyIdentity(ctx, req.Selfie, req.Document)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrIdentityNotVerified
	}

	unlock := uc.sessions.lock(userID)
	defer unlock()

	seq, err = uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seq.Finalized() {
		return nil, domain.ErrOnboardingFinalized
	}

	seq.MarkIdentityVerified()
	if err := uc.save(ctx, seq); err != nil {
		return nil, err
	}
	return response(seq), nil
}

// Restart discards the session. A finalized profile is kept.
func (uc *OnboardingUseCase) Restart(ctx context.Context, userID string) (*StateResponse, error) {
	unlock := uc.sessions.lock(userID)
	defer unlock()

	if err := uc.onboardingRepo.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to reset onboarding: %w", err)
	}
	return response(NewSequencer(userID, uc.steps, uc.validate)), nil
}

func (uc *OnboardingUseCase) load(ctx context.Context, userID string) (*Sequencer, error) {
	state, err := uc.onboardingRepo.Get(ctx, userID)
	if errors.Is(err, domain.ErrOnboardingNotStarted) {
		return NewSequencer(userID, uc.steps, uc.validate), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding: %w", err)
	}
	return Restore(state, uc.steps, uc.validate), nil
}

func (uc *OnboardingUseCase) save(ctx context.Context, seq *Sequencer) error {
	if err := uc.onboardingRepo.Save(ctx, seq.State(uc.now())); err != nil {
		return fmt.Errorf("failed to save onboarding: %w", err)
	}
	return nil
}

func response(seq *Sequencer) *StateResponse {
	return &StateResponse{Progress: seq.Current(), Draft: seq.Draft()}
}
