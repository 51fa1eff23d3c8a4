package util

import (
	"fmt"
	"time"
)

// ValidateDuration checks a reported session duration in milliseconds.
// Zero and the sub-second range are legal inputs (the recorder drops them
// silently); negatives and absurd values are not.
func ValidateDuration(ms int64) error {
	if ms < 0 {
		return fmt.Errorf("duration must be non-negative, got %d", ms)
	}
	if ms > 7*24*3600*1000 { // a week-long single run is a client bug
		return fmt.Errorf("duration too large, got %d", ms)
	}
	return nil
}

// ValidateDate checks that a string is a YYYY-MM-DD calendar date and
// returns its parsed value.
func ValidateDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}
