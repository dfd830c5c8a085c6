package scheduler

import (
	"time"

	"github.com/SMUK0/RandomForest/pkg/core/model"
)

// AvailabilityIndex answers whole-hour containment queries against an actor's
// recurring weekly windows. Windows are grouped by weekday once at build time;
// the index is read-only afterwards.
type AvailabilityIndex struct {
	byWeekday map[time.Weekday][]model.AvailabilityWindow
}

// NewAvailabilityIndex builds an index over already-validated windows.
func NewAvailabilityIndex(windows []model.AvailabilityWindow) *AvailabilityIndex {
	idx := &AvailabilityIndex{byWeekday: make(map[time.Weekday][]model.AvailabilityWindow)}
	for _, w := range windows {
		idx.byWeekday[w.Weekday] = append(idx.byWeekday[w.Weekday], w)
	}
	return idx
}

// CoversHour reports whether the full clock hour starting at t is contained in
// one of the windows. Appointments are always one whole hour, so a window has
// to contain both HH:00 and HH+1:00; partial overlap is not bookable.
func (idx *AvailabilityIndex) CoversHour(t time.Time) bool {
	start := t.Hour() * 60
	end := (t.Hour() + 1) * 60
	for _, w := range idx.byWeekday[t.Weekday()] {
		if w.Start.Minutes() <= start && w.End.Minutes() >= end {
			return true
		}
	}
	return false
}

// Empty reports whether the index holds no windows at all.
func (idx *AvailabilityIndex) Empty() bool {
	return len(idx.byWeekday) == 0
}
