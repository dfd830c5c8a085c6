package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/model"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// ScheduleStore is the persistence surface the proposal service needs.
type ScheduleStore interface {
	GetPatients(ctx context.Context, psychologistID int) ([]model.Patient, error)
	GetBusySlots(ctx context.Context, psychologistID int, start, end time.Time) (scheduler.BusySet, error)
	InsertSuggestions(ctx context.Context, psychologistID int, entries []scheduler.Candidate) error
}

// ProposeRequest parameterizes one proposal run for a psychologist.
type ProposeRequest struct {
	PsychologistID int
	Slots          scheduler.SlotConfig
	Limits         scheduler.Limits

	// Tiers, when non-empty, restricts the run to patients in those
	// priority tiers.
	Tiers []model.Priority

	// ProviderWindows restricts slots to the psychologist's own working
	// windows, on top of the configured working day. Empty means the whole
	// working day is bookable.
	ProviderWindows []model.AvailabilityWindow

	// DryRun skips persisting the suggestions.
	DryRun bool

	// Now anchors the horizon; the zero value means time.Now().
	Now time.Time
}

// ProposeResult reports one completed run.
type ProposeResult struct {
	Schedule       scheduler.Schedule
	PatientCount   int
	CandidateCount int
}

// ProposeSchedule runs the full proposal pipeline for one psychologist: load
// the patient panel and the committed calendar, build and score candidates,
// pack a conflict-free schedule, and persist the suggestions. An empty
// schedule is a normal outcome, reported through Schedule.Reason.
func ProposeSchedule(ctx context.Context, store ScheduleStore, scorer scheduler.Scorer, logger *zap.Logger, req ProposeRequest) (*ProposeResult, error) {
	if err := req.Slots.Validate(); err != nil {
		return nil, err
	}
	if err := req.Limits.Validate(); err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	logger.Info("Proposing schedule",
		zap.Int("psychologist_id", req.PsychologistID),
		zap.Int("horizon_weeks", req.Slots.HorizonWeeks),
		zap.Bool("dry_run", req.DryRun))

	logger.Debug("Fetching patient panel")
	patients, err := store.GetPatients(ctx, req.PsychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patients: %w", err)
	}
	if len(req.Tiers) > 0 {
		patients = slices.DeleteFunc(slices.Clone(patients), func(p model.Patient) bool {
			return !slices.Contains(req.Tiers, p.Priority)
		})
	}
	logger.Debug("Patient panel loaded", zap.Int("count", len(patients)))

	if len(patients) == 0 {
		logger.Info("No patients in scope, nothing to propose")
		return &ProposeResult{Schedule: scheduler.Schedule{Reason: scheduler.ReasonNoCandidates}}, nil
	}

	horizonStart := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	horizonEnd := horizonStart.AddDate(0, 0, 7*req.Slots.HorizonWeeks)

	logger.Debug("Fetching committed appointments",
		zap.Time("from", horizonStart), zap.Time("to", horizonEnd))
	busy, err := store.GetBusySlots(ctx, req.PsychologistID, horizonStart, horizonEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy slots: %w", err)
	}
	logger.Debug("Committed slots loaded", zap.Int("count", len(busy)))

	params := scheduler.BuildParams{
		Now:   now,
		Slots: req.Slots,
		Busy:  busy,
	}
	if len(req.ProviderWindows) > 0 {
		params.Provider = scheduler.NewAvailabilityIndex(req.ProviderWindows)
	}

	candidates, err := scheduler.BuildCandidates(params, patients, scorer)
	if err != nil {
		return nil, fmt.Errorf("failed to build candidates: %w", err)
	}
	logger.Info("Candidates scored", zap.Int("count", len(candidates)))

	schedule, err := scheduler.Allocate(candidates, req.Limits)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate schedule: %w", err)
	}

	result := &ProposeResult{
		Schedule:       schedule,
		PatientCount:   len(patients),
		CandidateCount: len(candidates),
	}

	if schedule.Empty() {
		logger.Info("No feasible proposals", zap.String("reason", string(schedule.Reason)))
		return result, nil
	}

	logger.Info("Schedule packed", zap.Int("accepted", len(schedule.Entries)))

	if !req.DryRun {
		if err := store.InsertSuggestions(ctx, req.PsychologistID, schedule.Entries); err != nil {
			return nil, fmt.Errorf("failed to persist suggestions: %w", err)
		}
		logger.Info("Suggestions persisted", zap.Int("count", len(schedule.Entries)))
	}

	return result, nil
}
