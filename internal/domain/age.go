package domain

import "time"

// MinimumAge is the youngest age allowed to sign up.
const MinimumAge = 18

// AgeOn returns the completed years between birth and today, taking month
// and day into account.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

func IsAdult(birth, today time.Time) bool {
	return AgeOn(birth, today) >= MinimumAge
}
