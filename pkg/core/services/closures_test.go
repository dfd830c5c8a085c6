package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

func TestExpandClosures(t *testing.T) {
	start := monday
	end := monday.AddDate(0, 0, 14)

	t.Run("no rules", func(t *testing.T) {
		closed, err := ExpandClosures(nil, start, end)
		require.NoError(t, err)
		assert.Empty(t, closed)
	})

	t.Run("weekly closure", func(t *testing.T) {
		closed, err := ExpandClosures([]string{"FREQ=WEEKLY;BYDAY=WE"}, start, end)
		require.NoError(t, err)

		wednesday := monday.AddDate(0, 0, 2)
		assert.Contains(t, closed, scheduler.DateOf(wednesday))
		assert.Contains(t, closed, scheduler.DateOf(wednesday.AddDate(0, 0, 7)))
		assert.NotContains(t, closed, scheduler.DateOf(monday))
	})

	t.Run("occurrence on the first day is kept", func(t *testing.T) {
		closed, err := ExpandClosures([]string{"FREQ=WEEKLY;BYDAY=MO"}, start, end)
		require.NoError(t, err)
		assert.Contains(t, closed, scheduler.DateOf(monday))
	})

	t.Run("invalid rule", func(t *testing.T) {
		_, err := ExpandClosures([]string{"garbage"}, start, end)
		assert.Error(t, err)
	})
}
