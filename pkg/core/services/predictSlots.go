package services

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/model"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// WindowInput is an availability window as supplied over the wire: weekday in
// the Monday=0 convention and HH:MM clock strings.
type WindowInput struct {
	Weekday int    `json:"weekday" yaml:"weekday"`
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
}

// PredictRequest asks for ranked slot proposals for a hypothetical patient
// profile, evaluated independently per priority tier. This mirrors the
// original slot-prediction contract: tiers do not see each other's picks, so
// two tiers may propose the same hour.
type PredictRequest struct {
	Weeks            int
	TopK             int
	Priorities       string // comma-separated tier list
	Age              int
	DaysSinceLast    int
	PrefersAfternoon bool
	PatientWindows   []WindowInput
	ProviderWindows  []WindowInput

	// Now anchors the horizon; the zero value means time.Now().
	Now time.Time
}

// PredictedSlot is one proposed hour for one tier.
type PredictedSlot struct {
	Priority model.Priority
	Start    time.Time
	Weekday  int
	Hour     int
	Score    float64
}

// PredictResult carries the concatenated per-tier proposals.
type PredictResult struct {
	Slots  []PredictedSlot
	Reason scheduler.EmptyReason
}

// ParseWindows converts wire-format windows, failing on the first malformed
// entry. Failures are reported as a validation error so callers can tell bad
// client input apart from internal faults.
func ParseWindows(inputs []WindowInput) ([]model.AvailabilityWindow, error) {
	windows := make([]model.AvailabilityWindow, 0, len(inputs))
	for i, in := range inputs {
		w, err := model.NewAvailabilityWindow(in.Weekday, in.Start, in.End)
		if err != nil {
			return nil, &scheduler.ValidationError{Field: fmt.Sprintf("window %d", i), Reason: err.Error()}
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// ParseTiers splits and validates a comma-separated priority list.
func ParseTiers(raw string) ([]model.Priority, error) {
	var tiers []model.Priority
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tier, err := model.ParsePriority(part)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("no priority tiers requested")
	}
	return tiers, nil
}

// PredictSlots evaluates the request profile against every tier in turn,
// keeping the TopK best-scoring hours per tier, and concatenates the results
// in tier order. No packing constraints apply in this mode.
func PredictSlots(scorer scheduler.Scorer, logger *zap.Logger, slots scheduler.SlotConfig, req PredictRequest) (*PredictResult, error) {
	if req.TopK <= 0 {
		return nil, &scheduler.ValidationError{Field: "top_k", Reason: fmt.Sprintf("%d must be positive", req.TopK)}
	}
	if err := slots.Validate(); err != nil {
		return nil, err
	}

	tiers, err := ParseTiers(req.Priorities)
	if err != nil {
		return nil, err
	}
	patientWindows, err := ParseWindows(req.PatientWindows)
	if err != nil {
		return nil, fmt.Errorf("patient availability: %w", err)
	}
	providerWindows, err := ParseWindows(req.ProviderWindows)
	if err != nil {
		return nil, fmt.Errorf("provider availability: %w", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	lastSession := now.AddDate(0, 0, -req.DaysSinceLast)
	prefersAfternoon := req.PrefersAfternoon

	slots.HorizonWeeks = req.Weeks

	params := scheduler.BuildParams{
		Now:   now,
		Slots: slots,
		Busy:  scheduler.BusySet{},
	}
	if len(providerWindows) > 0 {
		params.Provider = scheduler.NewAvailabilityIndex(providerWindows)
	}

	logger.Debug("Predicting slots",
		zap.Int("weeks", req.Weeks),
		zap.Int("top_k", req.TopK),
		zap.Int("tiers", len(tiers)))

	// The feature vector depends on the tier, so each tier gets its own
	// scored candidate pool for the same hypothetical profile.
	var candidates []scheduler.Candidate
	for _, tier := range tiers {
		profile := model.Patient{
			ID:                  0,
			Age:                 req.Age,
			Priority:            tier,
			LastSessionAt:       &lastSession,
			Windows:             patientWindows,
			AfternoonPreference: &prefersAfternoon,
		}

		tierCandidates, err := scheduler.BuildCandidates(params, []model.Patient{profile}, scorer)
		if err != nil {
			return nil, err
		}
		if len(tierCandidates) == 0 {
			logger.Debug("No candidates for tier", zap.String("tier", string(tier)))
		}
		candidates = append(candidates, tierCandidates...)
	}

	schedule, err := scheduler.AllocateByTier(candidates, tiers, req.TopK)
	if err != nil {
		return nil, err
	}
	if schedule.Empty() {
		return &PredictResult{Reason: schedule.Reason}, nil
	}

	predicted := make([]PredictedSlot, 0, len(schedule.Entries))
	for _, e := range schedule.Entries {
		predicted = append(predicted, PredictedSlot{
			Priority: e.Priority,
			Start:    e.Start,
			Weekday:  model.ISOWeekday(e.Start.Weekday()),
			Hour:     e.Start.Hour(),
			Score:    e.Score,
		})
	}
	return &PredictResult{Slots: predicted}, nil
}
