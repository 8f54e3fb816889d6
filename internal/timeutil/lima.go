package timeutil

import (
	"time"
)

// Lima is the workshop's local timezone (UTC-5, no DST). Equipment codes
// reset their daily sequence on Lima calendar days.
var Lima *time.Location

func init() {
	var err error
	Lima, err = time.LoadLocation("America/Lima")
	if err != nil {
		// Fallback: fixed zone if the tz database is unavailable
		Lima = time.FixedZone("PET", -5*60*60)
	}
}

// Now returns the current time in workshop local time.
func Now() time.Time {
	return time.Now().In(Lima)
}

// ToLocal converts any time to workshop local time.
func ToLocal(t time.Time) time.Time {
	return t.In(Lima)
}
