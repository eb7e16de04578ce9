package expiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subtracker/pkg/expiry"
	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("calendar date is UTC midnight", func(t *testing.T) {
		t.Parallel()
		d, err := expiry.ParseDate("2024-02-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("full instant", func(t *testing.T) {
		t.Parallel()
		d, err := expiry.ParseDate("2024-01-01T10:30:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), d)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "not a date", "2024-13-01", "01/02/2024"} {
			_, err := expiry.ParseDate(s)
			assert.ErrorIs(t, err, expiry.ErrInvalidDate, s)
		}
	})
}

func TestDaysUntilAt(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  string
		want int
	}{
		{"exactly seven days", "2024-01-25T00:00:00Z", 7},
		{"partial day rounds up", "2024-01-25T10:00:00Z", 7},
		{"one hour before", "2024-01-31T23:00:00Z", 1},
		{"same instant", "2024-02-01T00:00:00Z", 0},
		{"later the same day", "2024-02-01T15:00:00Z", 0},
		{"one day after", "2024-02-02T00:00:00Z", -1},
		{"ten and a half days after", "2024-02-11T12:00:00Z", -10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, expiry.DaysUntilAt(end, mustTime(t, tt.now)))
		})
	}
}

func TestIsExpiringSoonAt(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, expiry.IsExpiringSoonAt(end, mustTime(t, "2024-01-25T08:00:00Z"), 7))
	assert.True(t, expiry.IsExpiringSoonAt(end, mustTime(t, "2024-02-01T08:00:00Z"), 7), "expires today")
	assert.False(t, expiry.IsExpiringSoonAt(end, mustTime(t, "2024-01-24T00:00:00Z"), 7), "eight days out")
	assert.False(t, expiry.IsExpiringSoonAt(end, mustTime(t, "2024-02-02T08:00:00Z"), 7), "already expired")
	assert.True(t, expiry.IsExpiringSoonAt(end, mustTime(t, "2024-01-24T00:00:00Z"), 8), "custom threshold")
}

func TestExpiredAndExpiringSoonAreExclusive(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 24*60; i++ {
		at := now.Add(time.Duration(i) * time.Hour)
		days := expiry.DaysUntilAt(end, at)
		soon := expiry.IsExpiringSoonAt(end, at, expiry.DefaultThresholdDays)
		expired := expiry.IsExpiredAt(end, at)

		assert.False(t, soon && expired, "both flags set at %s", at)
		assert.Equal(t, days >= 0 && days <= 7, soon, "at %s", at)
		assert.Equal(t, days < 0, expired, "at %s", at)
	}
}

func TestWallClockWrappers(t *testing.T) {
	t.Parallel()

	today := time.Now().UTC()
	future := today.AddDate(0, 0, 30).Format(expiry.DateLayout)
	soon := today.AddDate(0, 0, 3).Format(expiry.DateLayout)
	past := today.AddDate(0, 0, -3).Format(expiry.DateLayout)

	days, err := expiry.DaysUntil(future)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, days, 29)
	assert.LessOrEqual(t, days, 30)

	assert.True(t, expiry.IsExpiringSoon(soon, expiry.DefaultThresholdDays))
	assert.False(t, expiry.IsExpiringSoon(future, expiry.DefaultThresholdDays))
	assert.True(t, expiry.IsExpired(past))
	assert.False(t, expiry.IsExpired(future))

	_, err = expiry.DaysUntil("garbage")
	assert.ErrorIs(t, err, expiry.ErrInvalidDate)
	assert.False(t, expiry.IsExpired("garbage"))
	assert.False(t, expiry.IsExpiringSoon("garbage", expiry.DefaultThresholdDays))
}

func TestComputeEndDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   string
		cadence subscription.Cadence
		want    string
	}{
		{"weekly", "2024-01-01", subscription.CadenceWeekly, "2024-01-08"},
		{"weekly across year", "2024-12-28", subscription.CadenceWeekly, "2025-01-04"},
		{"monthly", "2024-01-01", subscription.CadenceMonthly, "2024-02-01"},
		{"monthly overflow leap year", "2024-01-31", subscription.CadenceMonthly, "2024-03-02"},
		{"monthly overflow common year", "2023-01-31", subscription.CadenceMonthly, "2023-03-03"},
		{"monthly december", "2024-12-15", subscription.CadenceMonthly, "2025-01-15"},
		{"yearly", "2024-03-10", subscription.CadenceYearly, "2025-03-10"},
		{"yearly from leap day", "2024-02-29", subscription.CadenceYearly, "2025-03-01"},
		{"custom keeps start", "2024-05-05", subscription.CadenceCustom, "2024-05-05"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := expiry.ComputeEndDate(tt.start, tt.cadence)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("derived end is after start", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 800; i++ {
			s := start.AddDate(0, 0, i).Format(expiry.DateLayout)
			for _, c := range []subscription.Cadence{subscription.CadenceWeekly, subscription.CadenceMonthly, subscription.CadenceYearly} {
				got, err := expiry.ComputeEndDate(s, c)
				require.NoError(t, err)
				assert.Greater(t, got, s, "%s + %s", s, c)
			}
		}
	})

	t.Run("custom passes invalid input through", func(t *testing.T) {
		t.Parallel()
		got, err := expiry.ComputeEndDate("whenever", subscription.CadenceCustom)
		require.NoError(t, err)
		assert.Equal(t, "whenever", got)
	})

	t.Run("invalid start", func(t *testing.T) {
		t.Parallel()
		_, err := expiry.ComputeEndDate("nope", subscription.CadenceMonthly)
		assert.ErrorIs(t, err, expiry.ErrInvalidDate)
	})

	t.Run("unknown cadence", func(t *testing.T) {
		t.Parallel()
		_, err := expiry.ComputeEndDate("2024-01-01", "Daily")
		assert.ErrorIs(t, err, subscription.ErrUnknownCadence)
	})
}

func TestFormatDisplayDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jan 5, 2024", expiry.FormatDisplayDate("2024-01-05"))
	assert.Equal(t, "Dec 31, 2023", expiry.FormatDisplayDate("2023-12-31"))
	assert.Equal(t, "n/a", expiry.FormatDisplayDate("n/a"))
}
