package backup

import (
	"encoding/json"
	"time"

	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

const filenamePrefix = "subscription-backup-"

// Export renders records as a JSON array indented with two spaces.
// A nil or empty collection renders as [].
func Export(records []subscription.Record) ([]byte, error) {
	return json.MarshalIndent(subscription.Clone(records), "", "  ")
}

// Filename returns the download name for a backup taken at now, using the
// UTC calendar date.
func Filename(now time.Time) string {
	return filenamePrefix + now.UTC().Format("2006-01-02") + ".json"
}
