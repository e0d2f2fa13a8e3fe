package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/tracklit/internal/constants"
)

// DateKey returns the YYYY-MM-DD key for t's local wall-clock date.
// No zone is retained, so day boundaries follow the observer's time zone.
func DateKey(t time.Time) string {
	return t.Local().Format(constants.DateFormat)
}

// Today returns the DateKey for the current local day.
func Today() string {
	return DateKey(time.Now())
}

// ParseDateKey parses a DateKey as midnight UTC, which keeps day arithmetic
// free of DST shifts.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// ValidDateKey reports whether key is a real calendar date in canonical form.
func ValidDateKey(key string) bool {
	t, err := ParseDateKey(key)
	return err == nil && t.Format(constants.DateFormat) == key
}

// AddDays returns the DateKey n calendar days after key.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}
