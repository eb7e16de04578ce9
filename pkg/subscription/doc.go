// Package subscription defines the recurring-subscription record kept by the tracker.
//
// A Record is the sole persisted entity. It is created from FormData, which carries
// every field except the identifier and creation timestamp (both assigned by the store),
// and later mutated by merging a new FormData over it.
//
// Dates are stored exactly as they appear in the persisted JSON document ("YYYY-MM-DD"
// for start/end dates, an RFC 3339 instant for CreatedAt). Keeping them as strings means
// a document read from disk or imported from a backup is written back unchanged.
// Date arithmetic lives in the expiry package.
//
// # Usage
//
//	form := subscription.FormData{
//		ServiceName:      "Netflix",
//		StartDate:        "2024-01-01",
//		EndDate:          "2024-02-01",
//		SubscriptionType: subscription.CadenceMonthly,
//		PaymentMethod:    "Credit Card",
//	}
//	if err := form.Validate(); err != nil {
//		// show err to the user
//	}
//
// # Error Handling
//
// Validate returns an error wrapping ErrInvalidFormData. Use errors.Is to detect it.
package subscription
