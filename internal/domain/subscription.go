package domain

import (
	"strings"
	"time"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierPioneer Tier = "pioneer"
)

// Unlimited is the cap value meaning no daily limit.
const Unlimited = -1

// SubscriptionPeriod is how long a paid tier lasts after an upgrade.
const SubscriptionPeriod = 30 * 24 * time.Hour

type Features struct {
	DailySuggestions     int  `json:"daily_suggestions"`
	MessagesPerDay       int  `json:"messages_per_day"`
	HasAdvancedFilters   bool `json:"has_advanced_filters"`
	HasAudioIntros       bool `json:"has_audio_intros"`
	HasVideoChat         bool `json:"has_video_chat"`
	HasLocationDiscovery bool `json:"has_location_discovery"`
	HasBoosts            bool `json:"has_boosts"`
	HasReferralSharing   bool `json:"has_referral_sharing"`
}

// Limit returns the daily cap for kind.
func (f Features) Limit(kind UsageKind) int {
	switch kind {
	case UsageSuggestions:
		return f.DailySuggestions
	case UsageMessages:
		return f.MessagesPerDay
	default:
		return 0
	}
}

// FeaturesForTier returns the entitlement snapshot of a tier. Unknown tiers
// get the free entitlements.
func FeaturesForTier(tier Tier) Features {
	switch tier {
	case TierPremium:
		return Features{
			DailySuggestions:     20,
			MessagesPerDay:       Unlimited,
			HasAdvancedFilters:   true,
			HasAudioIntros:       true,
			HasVideoChat:         true,
			HasLocationDiscovery: true,
		}
	case TierPioneer:
		return Features{
			DailySuggestions:     20,
			MessagesPerDay:       Unlimited,
			HasAdvancedFilters:   true,
			HasAudioIntros:       true,
			HasVideoChat:         true,
			HasLocationDiscovery: true,
			HasBoosts:            true,
			HasReferralSharing:   true,
		}
	default:
		return Features{
			DailySuggestions: 5,
			MessagesPerDay:   3,
		}
	}
}

func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierFree, TierPremium, TierPioneer:
		return t, nil
	default:
		return "", ErrInvalidTier
	}
}

type SubscriptionStatus struct {
	Tier      Tier       `json:"tier"`
	ExpiresAt *time.Time `json:"expires_at"`
	Features  Features   `json:"features"`
}

// NewSubscriptionStatus builds the full status of a tier as of now. The
// status is always recomputed wholesale, never patched.
func NewSubscriptionStatus(tier Tier, now time.Time) *SubscriptionStatus {
	status := &SubscriptionStatus{
		Tier:     tier,
		Features: FeaturesForTier(tier),
	}
	if tier != TierFree {
		expires := now.Add(SubscriptionPeriod)
		status.ExpiresAt = &expires
	}
	return status
}
