package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceByCycle(t *testing.T) {
	from := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		cycle string
		n     int
		want  string
	}{
		{CycleDaily, 1, "2025-02-01"},
		{CycleDaily, 10, "2025-02-10"},
		{CycleWeekly, 2, "2025-02-14"},
		{CycleMonthly, 1, "2025-03-03"},
		{CycleMonthly, 3, "2025-05-01"},
		{CycleYearly, 1, "2026-01-31"},
		{CycleWeekly, 0, "2025-02-07"},
	}
	for _, tt := range tests {
		t.Run(tt.cycle, func(t *testing.T) {
			got, err := AdvanceByCycle(from, tt.cycle, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DateKey(got))
		})
	}

	_, err := AdvanceByCycle(from, "hourly", 1)
	assert.Error(t, err)
}

func TestDateHelpers(t *testing.T) {
	d, err := ParseDateKey("2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, "2025-06-30", DateKey(d))

	_, err = ParseDateKey("30/06/2025")
	assert.Error(t, err)

	noon := time.Date(2025, time.June, 30, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, d, BeginningOfDay(noon))
	assert.Equal(t, 3, DaysBetween(noon, noon.AddDate(0, 0, 3).Add(-time.Hour)))

	today := Today()
	assert.Zero(t, today.Hour())
	assert.Equal(t, time.UTC, today.Location())
}

func TestValidationHelpers(t *testing.T) {
	assert.True(t, ValidatePhone("+1 (555) 000-1111"))
	assert.True(t, ValidatePhone("9876543210"))
	assert.False(t, ValidatePhone("12"))
	assert.False(t, ValidatePhone("+0123456789"))

	assert.Equal(t, "office-supplies", Slugify("  Office Supplies! "))
	assert.Equal(t, "a-b-c", Slugify("A & B -- C"))
	assert.Equal(t, "", Slugify("!!!"))
}
