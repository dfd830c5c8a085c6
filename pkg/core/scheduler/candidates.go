package scheduler

import (
	"fmt"
	"time"

	"github.com/SMUK0/RandomForest/pkg/core/model"
)

// Scorer is the predictive model consumed by the candidate builder: a pure
// function from a feature vector to a probability in [0,1], stable across
// repeated calls within one run.
type Scorer interface {
	Score(FeatureVector) (float64, error)
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc func(FeatureVector) (float64, error)

func (f ScorerFunc) Score(fv FeatureVector) (float64, error) {
	return f(fv)
}

// Candidate is a scored (patient, slot) pair eligible for selection.
type Candidate struct {
	PatientID      int
	PatientAlias   string
	Start          time.Time
	Priority       model.Priority
	PriorityWeight int
	Score          float64
}

// SlotKey returns the conflict key for the psychologist's calendar hour.
func (c Candidate) SlotKey() SlotKey {
	return SlotKey{Date: DateOf(c.Start), Hour: c.Start.Hour()}
}

// PatientDayKey returns the conflict key for the patient's day.
func (c Candidate) PatientDayKey() PatientDayKey {
	return PatientDayKey{PatientID: c.PatientID, Date: DateOf(c.Start)}
}

// PatientDayKey identifies a patient's calendar day; at most one appointment
// is offered per patient per day.
type PatientDayKey struct {
	PatientID int
	Date      Date
}

// BuildParams carries everything the candidate builder needs for one run.
type BuildParams struct {
	// Now anchors the horizon and the days-since-last-session feature.
	Now time.Time

	// Slots bounds slot generation.
	Slots SlotConfig

	// Provider restricts candidates to hours the psychologist works, when
	// set. A nil index means the psychologist is available at every
	// generated slot.
	Provider *AvailabilityIndex

	// Busy holds slots already committed within the horizon.
	Busy BusySet
}

// BuildCandidates crosses patients with generated slots, keeps the pairs
// where the patient is free for the whole hour, the psychologist works that
// hour, and the slot is not already committed, and scores each surviving pair
// exactly once. Filtering runs strictly before scoring: the model is
// potentially expensive and is never called for a filtered-out pair.
//
// The returned list is unordered; ranking belongs to the allocator.
func BuildCandidates(params BuildParams, patients []model.Patient, scorer Scorer) ([]Candidate, error) {
	if err := params.Slots.Validate(); err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, &ValidationError{Field: "scorer", Reason: "a scoring model is required"}
	}

	var candidates []Candidate
	for _, p := range patients {
		weight, err := p.Priority.Weight()
		if err != nil {
			return nil, err
		}
		patientIdx := NewAvailabilityIndex(p.Windows)
		if patientIdx.Empty() {
			continue
		}

		for slot := range Slots(params.Now, params.Slots) {
			if !patientIdx.CoversHour(slot) {
				continue
			}
			if params.Provider != nil && !params.Provider.CoversHour(slot) {
				continue
			}
			if params.Busy.Contains(slot) {
				continue
			}

			fv := slotFeatures(params.Now, slot, weight, p)
			score, err := scorer.Score(fv)
			if err != nil {
				return nil, &ScoringError{Err: err}
			}
			if score < 0 || score > 1 {
				return nil, &ScoringError{Err: fmt.Errorf("model returned %v, want a probability in [0,1]", score)}
			}

			candidates = append(candidates, Candidate{
				PatientID:      p.ID,
				PatientAlias:   p.Alias(),
				Start:          slot,
				Priority:       p.Priority,
				PriorityWeight: weight,
				Score:          score,
			})
		}
	}
	return candidates, nil
}
