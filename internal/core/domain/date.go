package domain

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC-midnight time. Buckets are
// keyed by these values, so no local-timezone offset may ever leak in.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	return TruncateToDay(time.Now().UTC())
}

// TruncateToDay drops the time-of-day portion, keeping the UTC calendar date.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of the day holding t.
// A start-only range filter extends through this instant.
func EndOfDay(t time.Time) time.Time {
	return TruncateToDay(t).Add(24*time.Hour - time.Millisecond)
}

// FormatDay renders a bucket date back to its YYYY-MM-DD key.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
