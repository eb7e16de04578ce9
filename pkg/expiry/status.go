package expiry

import (
	"fmt"
	"time"
)

// Status is the display classification of a subscription's end date.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	StatusUnknown      Status = "unknown"
)

// Classify returns the status of endDate at now.
// Expired and expiring soon are mutually exclusive.
func Classify(endDate string, now time.Time, thresholdDays int) Status {
	end, err := ParseDate(endDate)
	if err != nil {
		return StatusUnknown
	}
	switch {
	case IsExpiredAt(end, now):
		return StatusExpired
	case IsExpiringSoonAt(end, now, thresholdDays):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// Describe returns the short human status line shown next to a subscription.
func Describe(endDate string, now time.Time, thresholdDays int) string {
	end, err := ParseDate(endDate)
	if err != nil {
		return "Invalid date"
	}

	days := DaysUntilAt(end, now)
	switch Classify(endDate, now, thresholdDays) {
	case StatusExpired:
		return fmt.Sprintf("Expired %d days ago", -days)
	case StatusExpiringSoon:
		return fmt.Sprintf("Expires in %d days", days)
	default:
		return fmt.Sprintf("%d days remaining", days)
	}
}
