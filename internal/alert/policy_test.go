package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	start, end := WindowRange(now, 7)
	assert.Equal(t, time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC), end)
}

func TestMatchingLeadDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	leadDays := []int{7, 3, 1}

	tests := []struct {
		name    string
		expiry  time.Time
		matched []int
	}{
		{
			name:    "exactly_three_days",
			expiry:  now.AddDate(0, 0, 3),
			matched: []int{3},
		},
		{
			name:    "three_days_plus_hours_still_in_window",
			expiry:  now.AddDate(0, 0, 3).Add(23 * time.Hour),
			matched: []int{3},
		},
		{
			name:    "window_end_is_exclusive",
			expiry:  now.AddDate(0, 0, 4),
			matched: nil,
		},
		{
			name:    "seven_days",
			expiry:  now.AddDate(0, 0, 7),
			matched: []int{7},
		},
		{
			name:    "one_day",
			expiry:  now.AddDate(0, 0, 1).Add(12 * time.Hour),
			matched: []int{1},
		},
		{
			name:    "already_past",
			expiry:  now.AddDate(0, 0, -1),
			matched: nil,
		},
		{
			name:    "between_configured_windows",
			expiry:  now.AddDate(0, 0, 5),
			matched: nil,
		},
		{
			name:    "expires_right_now",
			expiry:  now,
			matched: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matched, matchingLeadDays(now, tt.expiry, leadDays))
		})
	}
}

func TestMatchDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-01", MatchDate(now))
}
