// Package expiry derives renewal and expiration status from subscription dates.
//
// All functions are pure and work at whole-day granularity. The *At variants take the
// evaluation instant explicitly, which keeps callers and tests deterministic; the
// variants without the suffix evaluate against the wall clock.
//
// Days until expiration are computed as ceil((end - now) / 24h): a subscription whose
// end date is today yields 0 and counts as expiring soon, not expired.
//
// # Usage
//
//	days, err := expiry.DaysUntil(rec.EndDate)
//	if expiry.IsExpiringSoon(rec.EndDate, expiry.DefaultThresholdDays) {
//		// highlight the record
//	}
//
//	end, err := expiry.ComputeEndDate("2024-01-31", subscription.CadenceMonthly)
//	// end == "2024-03-02": calendar month arithmetic, not fixed 30 days
//
// # Invalid dates
//
// Unparsable dates are reported as ErrInvalidDate by the functions that return an
// error. The boolean predicates treat them as neither expired nor expiring soon, and
// Classify reports StatusUnknown.
package expiry
