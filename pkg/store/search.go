package store

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/subtracker/pkg/expiry"
	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

// Search returns the records whose service name, cadence or payment method
// contains term, compared with Unicode case folding. The term is used as
// typed, surrounding spaces included. An empty term matches every record.
// The input is not modified.
func Search(records []subscription.Record, term string) []subscription.Record {
	if term == "" {
		return subscription.Clone(records)
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]subscription.Record, 0, len(records))
	for _, r := range records {
		for _, field := range []string{r.ServiceName, string(r.SubscriptionType), r.PaymentMethod} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// SortByExpiration returns a copy of records ordered by days until expiration,
// soonest first. Records with an unparsable end date go last. Ties keep their
// original order.
func SortByExpiration(records []subscription.Record, now time.Time) []subscription.Record {
	out := subscription.Clone(records)

	days := make(map[string]int, len(out))
	for _, r := range out {
		d := math.MaxInt
		if end, err := expiry.ParseDate(r.EndDate); err == nil {
			d = expiry.DaysUntilAt(end, now)
		}
		days[r.EndDate] = d
	}

	sort.SliceStable(out, func(i, j int) bool {
		return days[out[i].EndDate] < days[out[j].EndDate]
	})
	return out
}
