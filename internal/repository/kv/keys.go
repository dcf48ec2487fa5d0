// Package kv implements the repositories on top of the key-value storage port.
package kv

const (
	keyRegisteredUsers    = "qupid_users"
	keyUserPrefix         = "qupid_user:"
	keyResetPrefix        = "qupid_reset:"
	keyProfilePrefix      = "qupid_profile:"
	keyOnboardingPrefix   = "qupid_onboarding:"
	keySubscriptionPrefix = "qupid_subscription:"
	keyUsagePrefix        = "qupid_usage:"
	keyMessagesPrefix     = "qupid_messages:"
	keyShownPrefix        = "qupid_shown:"
	keySwipesPrefix       = "qupid_swipes:"
	keyMatchesPrefix      = "qupid_matches:"
)

func usageKey(userID, date string) string {
	return keyUsagePrefix + userID + ":" + date
}

func shownKey(userID, date string) string {
	return keyShownPrefix + userID + ":" + date
}
