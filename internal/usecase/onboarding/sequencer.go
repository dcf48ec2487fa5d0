package onboarding

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

// StepInput is what a client submits when leaving a step.
type StepInput struct {
	domain.ProfilePatch
	BirthDate string `json:"birth_date,omitempty"`
}

// Progress describes the step the cursor is on.
type Progress struct {
	Step      string `json:"step"`
	Title     string `json:"title"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
	CanGoBack bool   `json:"can_go_back"`
	Finalized bool   `json:"finalized"`
}

// Sequencer walks a user through the onboarding steps and accumulates the
// draft profile. It is not safe for concurrent use.
type Sequencer struct {
	steps     []Step
	validate  *validator.Validate
	cursor    int
	draft     domain.Profile
	birthDate string
	finalized bool
}

func NewSequencer(userID string, steps []Step, v *validator.Validate) *Sequencer {
	return &Sequencer{
		steps:    steps,
		validate: v,
		draft:    *domain.NewDefaultProfile(userID),
	}
}

// Restore rebuilds a sequencer from its persisted state. Out of range cursors
// are clamped.
func Restore(state *domain.OnboardingState, steps []Step, v *validator.Validate) *Sequencer {
	s := &Sequencer{
		steps:     steps,
		validate:  v,
		cursor:    state.Step,
		draft:     state.Draft,
		birthDate: state.BirthDate,
		finalized: state.Finalized,
	}
	s.cursor = s.clamp(s.cursor)
	return s
}

// State returns the persistable form of the sequencer.
func (s *Sequencer) State(now time.Time) *domain.OnboardingState {
	return &domain.OnboardingState{
		UserID:    s.draft.UserID,
		Step:      s.cursor,
		Draft:     s.Draft(),
		BirthDate: s.birthDate,
		Finalized: s.finalized,
		UpdatedAt: now,
	}
}

func (s *Sequencer) Draft() domain.Profile {
	return *s.draft.Clone()
}

func (s *Sequencer) Cursor() int { return s.cursor }

func (s *Sequencer) IsTerminal() bool { return s.cursor == len(s.steps)-1 }

func (s *Sequencer) Finalized() bool { return s.finalized }

// Advance validates in against the current step, merges it into the draft and
// moves to the next step. On the terminal step the input is merged and the
// cursor stays. The returned flag is true when this call entered the terminal
// step. A failed check leaves the sequencer untouched. A birth date accepted
// by the age step is remembered, so revisiting that step needs no new input.
func (s *Sequencer) Advance(in *StepInput, now time.Time) (bool, error) {
	if s.finalized {
		return false, domain.ErrOnboardingFinalized
	}
	input := StepInput{}
	if in != nil {
		input = *in
	}
	if err := validation.Struct(s.validate, &input.ProfilePatch); err != nil {
		return false, err
	}
	if input.BirthDate == "" {
		input.BirthDate = s.birthDate
	}

	candidate := s.Draft()
	input.ProfilePatch.Apply(&candidate)

	step := s.steps[s.cursor]
	if step.Check != nil {
		if err := step.Check(&candidate, &input, now); err != nil {
			return false, err
		}
	}

	s.draft = candidate
	if step.Name == StepAgeVerification {
		s.birthDate = input.BirthDate
	}
	if s.IsTerminal() {
		return false, nil
	}
	s.cursor = s.clamp(s.cursor + 1)
	return s.IsTerminal(), nil
}

// Retreat moves one step back. It stops at the first step.
func (s *Sequencer) Retreat() {
	if s.finalized {
		return
	}
	s.cursor = s.clamp(s.cursor - 1)
}

// MarkIdentityVerified records a successful identity check on the draft.
func (s *Sequencer) MarkIdentityVerified() {
	s.draft.IdentityVerified = true
}

// Finalize completes the draft. It is allowed once, on the terminal step.
func (s *Sequencer) Finalize() (*domain.Profile, error) {
	if s.finalized {
		return nil, domain.ErrOnboardingFinalized
	}
	if !s.IsTerminal() {
		return nil, domain.ErrNotAtTerminalStep
	}

	s.draft.OnboardingComplete = true
	s.draft.VerificationStatus = domain.VerificationVerified
	s.finalized = true

	profile := s.Draft()
	return &profile, nil
}

func (s *Sequencer) Current() Progress {
	step := s.steps[s.cursor]
	last := len(s.steps) - 1

	percent := 100
	if last > 0 {
		percent = s.cursor * 100 / last
	}
	return Progress{
		Step:      step.Name,
		Title:     step.Title,
		Index:     s.cursor,
		Total:     len(s.steps),
		Percent:   percent,
		CanGoBack: s.cursor > 0 && !s.finalized,
		Finalized: s.finalized,
	}
}

func (s *Sequencer) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if last := len(s.steps) - 1; i > last {
		return last
	}
	return i
}
