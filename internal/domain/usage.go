package domain

import (
	"fmt"
	"time"
)

type UsageKind string

const (
	UsageSuggestions UsageKind = "suggestions"
	UsageMessages    UsageKind = "messages"
)

func ParseUsageKind(s string) (UsageKind, error) {
	switch k := UsageKind(s); k {
	case UsageSuggestions, UsageMessages:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown usage kind %q", ErrInvalidInput, s)
	}
}

// DailyUsage holds the counters of one calendar day.
type DailyUsage struct {
	Suggestions int `json:"suggestions"`
	Messages    int `json:"messages"`
}

func (u DailyUsage) Count(kind UsageKind) int {
	switch kind {
	case UsageSuggestions:
		return u.Suggestions
	case UsageMessages:
		return u.Messages
	default:
		return 0
	}
}

func (u *DailyUsage) Increment(kind UsageKind) {
	switch kind {
	case UsageSuggestions:
		u.Suggestions++
	case UsageMessages:
		u.Messages++
	}
}

// DateKey formats t as the calendar day it falls on in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}
