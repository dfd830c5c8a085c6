package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority is a patient's clinical priority tier.
type Priority string

const (
	PriorityVeryUrgent Priority = "muy_urgente"
	PriorityHigh       Priority = "alta"
	PriorityMedium     Priority = "media"
	PriorityRegular    Priority = "regular"
	PriorityLow        Priority = "baja"
	PriorityVeryLow    Priority = "muy_baja"
)

// priorityWeights is the fixed ranking order over tiers, most urgent first.
// The scoring model was trained against these exact numeric values.
var priorityWeights = map[Priority]int{
	PriorityVeryUrgent: 5,
	PriorityHigh:       4,
	PriorityMedium:     3,
	PriorityRegular:    2,
	PriorityLow:        1,
	PriorityVeryLow:    0,
}

// priorityAliases maps the legacy tier spellings still present in some patient
// records to the canonical tiers.
var priorityAliases = map[string]Priority{
	"alto":  PriorityHigh,
	"medio": PriorityMedium,
	"bajo":  PriorityLow,
}

// UnknownPriorityError indicates a clinical priority outside the known tier
// set. Scheduling fails rather than defaulting, since a made-up weight would
// silently distort the ranking.
type UnknownPriorityError struct {
	Value string
}

func (e *UnknownPriorityError) Error() string {
	return fmt.Sprintf("unknown clinical priority %q", e.Value)
}

// ParsePriority normalizes a raw tier value, accepting legacy aliases.
func ParsePriority(raw string) (Priority, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := priorityAliases[v]; ok {
		return alias, nil
	}
	p := Priority(v)
	if _, ok := priorityWeights[p]; !ok {
		return "", &UnknownPriorityError{Value: raw}
	}
	return p, nil
}

// Weight returns the numeric ranking weight for a tier.
func (p Priority) Weight() (int, error) {
	w, ok := priorityWeights[p]
	if !ok {
		return 0, &UnknownPriorityError{Value: string(p)}
	}
	return w, nil
}

// Known reports whether p is one of the canonical tiers.
func (p Priority) Known() bool {
	_, ok := priorityWeights[p]
	return ok
}

// Patient is one patient in the psychologist's panel, as loaded for a single
// scheduling run. The record is read-only once fetched.
type Patient struct {
	ID            int
	FirstName     string
	LastName      string
	Age           int
	Priority      Priority
	LastSessionAt *time.Time
	Windows       []AvailabilityWindow

	// AfternoonPreference, when set, overrides the derived afternoon
	// preference. The slot-prediction endpoint supplies it explicitly; panel
	// records leave it nil and fall back to the window heuristic.
	AfternoonPreference *bool
}

// Name returns the patient's display name.
func (p Patient) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Alias builds the short calendar label for a patient: initials plus the last
// two characters of the decimal ID, e.g. "MG23". Single-digit IDs stay a
// single character.
func (p Patient) Alias() string {
	initials := ""
	if p.FirstName != "" {
		initials += string([]rune(p.FirstName)[0])
	}
	if p.LastName != "" {
		initials += string([]rune(p.LastName)[0])
	}
	id := strconv.Itoa(p.ID)
	if len(id) > 2 {
		id = id[len(id)-2:]
	}
	return strings.ToUpper(initials) + id
}

// PrefersAfternoon reports whether at least 60% of the patient's availability
// windows start at 14:00 or later. An empty window list counts as false.
func (p Patient) PrefersAfternoon() bool {
	if p.AfternoonPreference != nil {
		return *p.AfternoonPreference
	}
	if len(p.Windows) == 0 {
		return false
	}
	afternoon := 0
	for _, w := range p.Windows {
		if w.Start.Hour >= 14 {
			afternoon++
		}
	}
	return float64(afternoon)/float64(len(p.Windows)) >= 0.6
}
