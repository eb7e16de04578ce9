package backup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subtracker/pkg/backup"
	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

func sample() []subscription.Record {
	return []subscription.Record{
		{
			ID:               "1706176800000",
			ServiceName:      "Netflix",
			StartDate:        "2024-01-01",
			EndDate:          "2024-02-01",
			SubscriptionType: subscription.CadenceMonthly,
			MobileNumber:     "+1 555 0100",
			Email:            "me@example.com",
			PaymentMethod:    "Card",
			CardBank:         "Chase",
			AutoRenewal:      true,
			CreatedAt:        "2024-01-25T10:00:00.000Z",
		},
		{
			ID:               "2",
			ServiceName:      "Domain",
			StartDate:        "2024-03-10",
			EndDate:          "2024-03-10",
			SubscriptionType: subscription.CadenceCustom,
			CreatedAt:        "2024-03-10T08:30:00.000Z",
		},
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("empty collection", func(t *testing.T) {
		t.Parallel()
		for _, in := range [][]subscription.Record{nil, {}} {
			out, err := backup.Export(in)
			require.NoError(t, err)
			assert.Equal(t, "[]", string(out))
		}
	})

	t.Run("two-space indentation", func(t *testing.T) {
		t.Parallel()
		out, err := backup.Export(sample()[:1])
		require.NoError(t, err)

		want := `[
  {
    "id": "1706176800000",
    "serviceName": "Netflix",
    "startDate": "2024-01-01",
    "endDate": "2024-02-01",
    "subscriptionType": "Monthly",
    "mobileNumber": "+1 555 0100",
    "email": "me@example.com",
    "paymentMethod": "Card",
    "cardBank": "Chase",
    "autoRenewal": true,
    "createdAt": "2024-01-25T10:00:00.000Z"
  }
]`
		assert.Equal(t, want, string(out))
	})
}

func TestFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "subscription-backup-2024-01-25.json",
		backup.Filename(time.Date(2024, 1, 25, 23, 0, 0, 0, time.UTC)))

	east := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, "subscription-backup-2024-01-25.json",
		backup.Filename(time.Date(2024, 1, 26, 1, 0, 0, 0, east)), "date is taken in UTC")
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	for name, records := range map[string][]subscription.Record{
		"empty":  {},
		"sample": sample(),
	} {
		records := records
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			data, err := backup.Export(records)
			require.NoError(t, err)

			got, err := backup.Parse(data)
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}
}
