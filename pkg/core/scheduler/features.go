package scheduler

import (
	"time"

	"github.com/SMUK0/RandomForest/pkg/core/model"
)

// FeatureNames is the exact ordered feature list the scoring model was
// trained with. Models whose artifact declares a different set or order are
// rejected at load time.
var FeatureNames = []string{
	"weekday",
	"hour",
	"priority_numeric",
	"age",
	"days_since_last_session",
	"match_availability",
	"provider_slot_occupied",
	"prefers_afternoon",
}

// FeatureVector is the fixed-shape input to the scoring model. Field order
// mirrors FeatureNames.
type FeatureVector struct {
	Weekday              int // Monday=0 .. Sunday=6
	Hour                 int
	PriorityNumeric      int
	Age                  int
	DaysSinceLastSession int
	MatchAvailability    int
	ProviderSlotOccupied int
	PrefersAfternoon     int
}

// Values flattens the vector into the positional form consumed by the model.
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.Weekday),
		float64(f.Hour),
		float64(f.PriorityNumeric),
		float64(f.Age),
		float64(f.DaysSinceLastSession),
		float64(f.MatchAvailability),
		float64(f.ProviderSlotOccupied),
		float64(f.PrefersAfternoon),
	}
}

// defaultDaysSinceLastSession is used when a patient has no recorded session:
// it deliberately signals "overdue" to the model.
const defaultDaysSinceLastSession = 90

// DaysSinceLastSession returns the whole-day difference between now and the
// patient's last completed session, never negative, or the overdue default
// when no session is recorded.
func DaysSinceLastSession(now time.Time, last *time.Time) int {
	if last == nil {
		return defaultDaysSinceLastSession
	}
	days := int(now.Sub(*last).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func boolFeature(b bool) int {
	if b {
		return 1
	}
	return 0
}

// slotFeatures derives the feature vector for a (patient, slot) pair that has
// already passed the availability and busy-set filters, which is why
// MatchAvailability is fixed at 1 and ProviderSlotOccupied at 0.
func slotFeatures(now, slot time.Time, weight int, p model.Patient) FeatureVector {
	return FeatureVector{
		Weekday:              model.ISOWeekday(slot.Weekday()),
		Hour:                 slot.Hour(),
		PriorityNumeric:      weight,
		Age:                  p.Age,
		DaysSinceLastSession: DaysSinceLastSession(now, p.LastSessionAt),
		MatchAvailability:    1,
		ProviderSlotOccupied: 0,
		PrefersAfternoon:     boolFeature(p.PrefersAfternoon()),
	}
}
