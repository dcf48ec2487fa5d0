package onboarding

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

const (
	StepWelcome              = "welcome"
	StepAgeVerification      = "age_verification"
	StepIdentityVerification = "identity_verification"
	StepAvatar               = "avatar"
	StepProfile              = "profile"
	StepInterests            = "interests"
	StepPreferences          = "preferences"
	StepComplete             = "complete"
)

// BirthDateLayout is the format of StepInput.BirthDate.
const BirthDateLayout = "2006-01-02"

// Step is one screen of the onboarding flow. Check receives the draft as it
// would look after merging the submitted input and reports whether the step
// is satisfied. It may fill in derived fields of candidate.
type Step struct {
	Name  string
	Title string
	Check func(candidate *domain.Profile, in *StepInput, now time.Time) error
}

// DefaultSteps returns the onboarding flow: welcome, age and identity checks,
// avatar, profile, interests, preferences and the terminal step.
func DefaultSteps(v *validator.Validate) []Step {
	return []Step{
		{Name: StepWelcome, Title: "Welcome to Qupid", Check: always},
		{Name: StepAgeVerification, Title: "Age Verification", Check: checkAge},
		{Name: StepIdentityVerification, Title: "Identity Verification", Check: checkIdentity},
		{Name: StepAvatar, Title: "Create Your Avatar", Check: checkAvatar(v)},
		{Name: StepProfile, Title: "Set Up Profile", Check: checkProfile},
		{Name: StepInterests, Title: "Your Interests", Check: checkInterests},
		{Name: StepPreferences, Title: "Dating Preferences", Check: checkPreferences(v)},
		{Name: StepComplete, Title: "Welcome Aboard!"},
	}
}

func always(*domain.Profile, *StepInput, time.Time) error { return nil }

func checkAge(candidate *domain.Profile, in *StepInput, now time.Time) error {
	if in == nil || strings.TrimSpace(in.BirthDate) == "" {
		return domain.NewValidationError("birth_date", "is required")
	}
	birth, err := time.Parse(BirthDateLayout, strings.TrimSpace(in.BirthDate))
	if err != nil {
		return domain.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format")
	}
	if birth.After(now) {
		return domain.NewValidationError("birth_date", "must not be in the future")
	}
	if !domain.IsAdult(birth, now) {
		return domain.ErrUnderage
	}
	candidate.Age = domain.AgeOn(birth, now)
	return nil
}

func checkIdentity(candidate *domain.Profile, _ *StepInput, _ time.Time) error {
	if !candidate.IdentityVerified {
		return domain.ErrIdentityNotVerified
	}
	return nil
}

func checkAvatar(v *validator.Validate) func(*domain.Profile, *StepInput, time.Time) error {
	return func(candidate *domain.Profile, _ *StepInput, _ time.Time) error {
		return validation.Struct(v, struct {
			Avatar domain.Avatar `json:"avatar"`
		}{candidate.Avatar})
	}
}

func checkProfile(candidate *domain.Profile, _ *StepInput, _ time.Time) error {
	fields := map[string]string{}
	if strings.TrimSpace(candidate.DisplayName) == "" {
		fields["display_name"] = "is required"
	}
	if candidate.Pronouns == "" {
		fields["pronouns"] = "is required"
	}
	if candidate.Orientation == "" {
		fields["orientation"] = "is required"
	}
	if candidate.CityBucket == "" {
		fields["city_bucket"] = "is required"
	}
	if len([]rune(candidate.Bio)) > 300 {
		fields["bio"] = "must be at most 300 characters"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func checkInterests(candidate *domain.Profile, _ *StepInput, _ time.Time) error {
	fields := map[string]string{}
	if n := len(candidate.Interests); n < 3 || n > 12 {
		fields["interests"] = "select between 3 and 12 interests"
	}
	if n := len(candidate.Values); n < 3 || n > 8 {
		fields["values"] = "select between 3 and 8 values"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func checkPreferences(v *validator.Validate) func(*domain.Profile, *StepInput, time.Time) error {
	return func(candidate *domain.Profile, _ *StepInput, _ time.Time) error {
		return validation.Struct(v, struct {
			Preferences domain.Preferences `json:"preferences"`
		}{candidate.Preferences})
	}
}
