package repository

import "context"

// SuggestionRepository remembers which profiles were suggested to a user on a
// given day.
type SuggestionRepository interface {
	ListShown(ctx context.Context, userID, date string) ([]string, error)
	MarkShown(ctx context.Context, userID, date, shownUserID string) error
}
