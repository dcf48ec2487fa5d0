package domain

import "time"

// OnboardingState is the persisted form of an onboarding session.
type OnboardingState struct {
	UserID    string    `json:"user_id"`
	Step      int       `json:"step"`
	Draft     Profile   `json:"draft"`
	BirthDate string    `json:"birth_date,omitempty"`
	Finalized bool      `json:"finalized"`
	UpdatedAt time.Time `json:"updated_at"`
}
