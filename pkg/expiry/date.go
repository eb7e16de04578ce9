package expiry

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

const (
	// DefaultThresholdDays is how many days ahead a subscription counts as expiring soon.
	DefaultThresholdDays = 7

	// DateLayout is the calendar date format used in the persisted document.
	DateLayout = "2006-01-02"

	// DisplayLayout renders dates as "Jan 2, 2006".
	DisplayLayout = "Jan 2, 2006"

	day = 24 * time.Hour
)

// ParseDate parses a calendar date ("2006-01-02", taken as UTC midnight)
// or a full RFC 3339 instant.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DaysUntilAt returns the signed number of days from now to end, rounded up.
// Positive means the future, negative the past, zero expires today.
func DaysUntilAt(end, now time.Time) int {
	return int(math.Ceil(float64(end.Sub(now)) / float64(day)))
}

// IsExpiringSoonAt reports whether end falls within [0, thresholdDays] days from now.
func IsExpiringSoonAt(end, now time.Time, thresholdDays int) bool {
	d := DaysUntilAt(end, now)
	return d >= 0 && d <= thresholdDays
}

// IsExpiredAt reports whether end lies strictly in the past by at least part of a day.
func IsExpiredAt(end, now time.Time) bool {
	return DaysUntilAt(end, now) < 0
}

// DaysUntil parses endDate and returns the days remaining as of the current instant.
func DaysUntil(endDate string) (int, error) {
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	return DaysUntilAt(end, time.Now()), nil
}

// IsExpiringSoon is IsExpiringSoonAt evaluated now. Invalid dates yield false.
func IsExpiringSoon(endDate string, thresholdDays int) bool {
	end, err := ParseDate(endDate)
	if err != nil {
		return false
	}
	return IsExpiringSoonAt(end, time.Now(), thresholdDays)
}

// IsExpired is IsExpiredAt evaluated now. Invalid dates yield false.
func IsExpired(endDate string) bool {
	end, err := ParseDate(endDate)
	if err != nil {
		return false
	}
	return IsExpiredAt(end, time.Now())
}

// ComputeEndDate derives the end date of one renewal period starting at startDate.
// Months and years use calendar arithmetic with overflow normalization
// (Jan 31 + 1 month is Mar 2 or Mar 3). Custom returns startDate unchanged.
func ComputeEndDate(startDate string, cadence subscription.Cadence) (string, error) {
	if cadence == subscription.CadenceCustom {
		return startDate, nil
	}
	if !cadence.Valid() {
		return "", fmt.Errorf("%w: %q", subscription.ErrUnknownCadence, cadence)
	}

	start, err := ParseDate(startDate)
	if err != nil {
		return "", err
	}
	start = start.UTC()

	var end time.Time
	switch cadence {
	case subscription.CadenceWeekly:
		end = start.AddDate(0, 0, 7)
	case subscription.CadenceMonthly:
		end = start.AddDate(0, 1, 0)
	case subscription.CadenceYearly:
		end = start.AddDate(1, 0, 0)
	}

	return end.Format(DateLayout), nil
}

// FormatDisplayDate renders s as "Jan 2, 2006". Unparsable input is returned as is.
func FormatDisplayDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.UTC().Format(DisplayLayout)
}
