package scheduler

import (
	"fmt"
	"slices"

	"github.com/SMUK0/RandomForest/pkg/core/model"
)

// Limits caps how much of the calendar an allocation run may fill.
type Limits struct {
	MaxPerDay  int
	MaxPerWeek int
}

// Validate rejects non-positive caps before allocation starts.
func (l Limits) Validate() error {
	if l.MaxPerDay <= 0 {
		return &ValidationError{Field: "max_per_day", Reason: fmt.Sprintf("%d must be positive", l.MaxPerDay)}
	}
	if l.MaxPerWeek <= 0 {
		return &ValidationError{Field: "max_per_week", Reason: fmt.Sprintf("%d must be positive", l.MaxPerWeek)}
	}
	return nil
}

// Schedule is the final artifact of one allocation run. Allocate returns the
// accepted candidates re-sorted chronologically; AllocateByTier keeps its own
// per-tier rank order. When Entries is empty, Reason says whether no candidate
// was ever generated or every candidate conflicted.
type Schedule struct {
	Entries []Candidate
	Reason  EmptyReason
}

// Empty reports whether no candidate was accepted.
func (s Schedule) Empty() bool {
	return len(s.Entries) == 0
}

// rankCandidates orders candidates for greedy selection: priority weight
// descending, then score descending, then ascending (patient ID, start time).
// The final two keys are an explicit tie-break so that runs over identical
// input produce identical schedules, rather than depending on sort stability.
func rankCandidates(candidates []Candidate) []Candidate {
	ranked := slices.Clone(candidates)
	slices.SortFunc(ranked, func(a, b Candidate) int {
		if a.PriorityWeight != b.PriorityWeight {
			return b.PriorityWeight - a.PriorityWeight
		}
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		if a.PatientID != b.PatientID {
			return a.PatientID - b.PatientID
		}
		return a.Start.Compare(b.Start)
	})
	return ranked
}

// chronological orders accepted entries by (date, hour) for presentation,
// with patient ID as a deterministic final key.
func chronological(entries []Candidate) {
	slices.SortFunc(entries, func(a, b Candidate) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.PatientID - b.PatientID
	})
}

// Allocate performs the single-pass, priority-first greedy selection. It
// walks the ranked candidates once and accepts each one whose acceptance
// keeps every schedule invariant intact: the slot is unused, the patient has
// nothing that day, the day is below MaxPerDay and the total below
// MaxPerWeek. Skipped candidates are never revisited; the pass stops early
// once the total cap is reached. Greedy is deliberate: O(n log n), stable and
// explainable, rather than globally optimal.
func Allocate(candidates []Candidate, limits Limits) (Schedule, error) {
	if err := limits.Validate(); err != nil {
		return Schedule{}, err
	}
	if len(candidates) == 0 {
		return Schedule{Reason: ReasonNoCandidates}, nil
	}

	usedSlots := make(map[SlotKey]struct{})
	usedPatientDays := make(map[PatientDayKey]struct{})
	perDay := make(map[Date]int)

	var accepted []Candidate
	for _, c := range rankCandidates(candidates) {
		slotKey := c.SlotKey()
		if _, taken := usedSlots[slotKey]; taken {
			continue
		}
		dayKey := c.PatientDayKey()
		if _, taken := usedPatientDays[dayKey]; taken {
			continue
		}
		if perDay[slotKey.Date] >= limits.MaxPerDay {
			continue
		}

		accepted = append(accepted, c)
		usedSlots[slotKey] = struct{}{}
		usedPatientDays[dayKey] = struct{}{}
		perDay[slotKey.Date]++

		if len(accepted) >= limits.MaxPerWeek {
			break
		}
	}

	if len(accepted) == 0 {
		return Schedule{Reason: ReasonAllConflicting}, nil
	}

	chronological(accepted)
	return Schedule{Entries: accepted}, nil
}

// rankByScore orders one tier's pool for top-k selection: score descending,
// then ascending start time as a deterministic tie-break.
func rankByScore(pool []Candidate) {
	slices.SortFunc(pool, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return a.Start.Compare(b.Start)
	})
}

// AllocateByTier is the per-tier mode: candidates are partitioned by the
// requested priority tiers and each partition is ranked independently, keeping
// the topK best-scoring hours per tier. The packing constraints of Allocate do
// NOT apply here: tiers are alternative rankings of the same request, so the
// same calendar hour may appear under several tiers and one tier may propose
// several hours on the same day. This looser guarantee is intentional; it
// mirrors the contract of the slot-prediction endpoint. Entries are grouped by
// tier in request order, ranked within each tier.
func AllocateByTier(candidates []Candidate, tiers []model.Priority, topK int) (Schedule, error) {
	if topK <= 0 {
		return Schedule{}, &ValidationError{Field: "top_k", Reason: fmt.Sprintf("%d must be positive", topK)}
	}
	if len(tiers) == 0 {
		return Schedule{}, &ValidationError{Field: "priorities", Reason: "at least one priority tier is required"}
	}
	for _, tier := range tiers {
		if !tier.Known() {
			return Schedule{}, &model.UnknownPriorityError{Value: string(tier)}
		}
	}

	var combined []Candidate
	for _, tier := range tiers {
		var pool []Candidate
		for _, c := range candidates {
			if c.Priority == tier {
				pool = append(pool, c)
			}
		}
		if len(pool) == 0 {
			continue
		}
		rankByScore(pool)
		if len(pool) > topK {
			pool = pool[:topK]
		}
		combined = append(combined, pool...)
	}

	if len(combined) == 0 {
		return Schedule{Reason: ReasonNoCandidates}, nil
	}
	return Schedule{Entries: combined}, nil
}
