package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrAccountNotFound        = errors.New("account not found")
	ErrIncorrectPassword      = errors.New("incorrect password")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidToken           = errors.New("invalid token")
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionExpired         = errors.New("session expired")
	ErrResetTokenInvalid      = errors.New("password reset token is invalid or expired")

	ErrProfileNotFound     = errors.New("profile not found")
	ErrUnderage            = errors.New("you must be 18 or older to use qupid")
	ErrIdentityNotVerified = errors.New("identity verification failed")

	ErrOnboardingNotStarted = errors.New("onboarding not started")
	ErrOnboardingFinalized  = errors.New("onboarding already finalized")
	ErrNotAtTerminalStep    = errors.New("onboarding is not at the final step")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidTier          = errors.New("invalid subscription tier")
	ErrQuotaExceeded        = errors.New("daily limit reached")

	ErrCannotMessageSelf  = errors.New("cannot send a message to yourself")
	ErrFeatureUnavailable = errors.New("feature unavailable")
	ErrNoSuggestionsLeft  = errors.New("no suggestions left for today")
	ErrNotSuggested       = errors.New("profile was not suggested to you today")
	ErrWrongStep          = errors.New("onboarding is on a different step")

	ErrCannotSwipeSelf    = errors.New("cannot swipe yourself")
	ErrSwipeAlreadyExists = errors.New("profile already swiped")
	ErrSwipeNotFound      = errors.New("swipe not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchAlreadyExists = errors.New("match already exists")
	ErrNotMatched         = errors.New("you can only message your matches")
)

// ValidationError carries per-field messages for form validation failures.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
