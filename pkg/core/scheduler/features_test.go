package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaysSinceLastSession(t *testing.T) {
	now := monday

	t.Run("no recorded session uses overdue default", func(t *testing.T) {
		assert.Equal(t, 90, DaysSinceLastSession(now, nil))
	})

	t.Run("whole day difference", func(t *testing.T) {
		last := now.AddDate(0, 0, -14)
		assert.Equal(t, 14, DaysSinceLastSession(now, &last))
	})

	t.Run("future timestamp clamps to zero", func(t *testing.T) {
		last := now.AddDate(0, 0, 3)
		assert.Equal(t, 0, DaysSinceLastSession(now, &last))
	})
}

func TestFeatureVectorValues(t *testing.T) {
	fv := FeatureVector{
		Weekday:              2,
		Hour:                 15,
		PriorityNumeric:      4,
		Age:                  31,
		DaysSinceLastSession: 7,
		MatchAvailability:    1,
		ProviderSlotOccupied: 0,
		PrefersAfternoon:     1,
	}

	values := fv.Values()
	assert.Len(t, values, len(FeatureNames))
	assert.Equal(t, []float64{2, 15, 4, 31, 7, 1, 0, 1}, values)
}

func TestSlotFeaturesWeekdayConvention(t *testing.T) {
	p := patient(t, 1, "alta", nil)
	fv := slotFeatures(monday, monday, 4, p)

	// Monday must map to 0, matching the model's training data.
	assert.Equal(t, 0, fv.Weekday)
	assert.Equal(t, 9, fv.Hour)
	assert.Equal(t, 1, fv.MatchAvailability)
	assert.Equal(t, 0, fv.ProviderSlotOccupied)

	sunday := monday.AddDate(0, 0, 6)
	fv = slotFeatures(monday, sunday, 4, p)
	assert.Equal(t, 6, fv.Weekday)
}
