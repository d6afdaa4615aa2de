package interval

import (
	"errors"
	"testing"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnd(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		interval models.PlanInterval
		want     time.Time
	}{
		{
			name:     "month",
			start:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			interval: models.IntervalMonth,
			want:     time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "month across year boundary",
			start:    time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			interval: models.IntervalMonth,
			want:     time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month from the 31st normalizes like AddDate",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			interval: models.IntervalMonth,
			want:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year",
			start:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			interval: models.IntervalYear,
			want:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year from leap day",
			start:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			interval: models.IntervalYear,
			want:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := End(tt.start, tt.interval)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestEndUnknownInterval(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, i := range []models.PlanInterval{"", "week", "MONTH"} {
		got, err := End(start, i)
		assert.True(t, errors.Is(err, ErrUnknownInterval))
		assert.False(t, got.Equal(start))
	}
}

func TestMonths(t *testing.T) {
	assert.Equal(t, 1, Months(models.IntervalMonth))
	assert.Equal(t, 12, Months(models.IntervalYear))
	assert.Equal(t, 0, Months("week"))
}

func TestEndsWithin(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, EndsWithin(now.Add(time.Hour), now, 24*time.Hour))
	assert.True(t, EndsWithin(now.Add(24*time.Hour), now, 24*time.Hour))
	assert.False(t, EndsWithin(now.Add(25*time.Hour), now, 24*time.Hour))
	assert.False(t, EndsWithin(now.Add(-time.Minute), now, 24*time.Hour))
}
