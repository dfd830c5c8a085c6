package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/model"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// monday anchors service tests: Monday 2026-03-02 09:00 UTC.
var monday = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// mockScheduleStore implements ScheduleStore for testing
type mockScheduleStore struct {
	patients            []model.Patient
	busy                scheduler.BusySet
	insertedSuggestions []scheduler.Candidate
	getPatientsErr      error
	getBusyErr          error
	insertErr           error
}

func (m *mockScheduleStore) GetPatients(ctx context.Context, psychologistID int) ([]model.Patient, error) {
	if m.getPatientsErr != nil {
		return nil, m.getPatientsErr
	}
	return m.patients, nil
}

func (m *mockScheduleStore) GetBusySlots(ctx context.Context, psychologistID int, start, end time.Time) (scheduler.BusySet, error) {
	if m.getBusyErr != nil {
		return nil, m.getBusyErr
	}
	if m.busy == nil {
		return scheduler.BusySet{}, nil
	}
	return m.busy, nil
}

func (m *mockScheduleStore) InsertSuggestions(ctx context.Context, psychologistID int, entries []scheduler.Candidate) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertedSuggestions = append(m.insertedSuggestions, entries...)
	return nil
}

func constantScorer(score float64) scheduler.Scorer {
	return scheduler.ScorerFunc(func(scheduler.FeatureVector) (float64, error) {
		return score, nil
	})
}

func testWindow(t *testing.T, weekday int, start, end string) model.AvailabilityWindow {
	t.Helper()
	w, err := model.NewAvailabilityWindow(weekday, start, end)
	require.NoError(t, err)
	return w
}

func testPatient(t *testing.T, id int, priority model.Priority) model.Patient {
	t.Helper()
	return model.Patient{
		ID:        id,
		FirstName: "Test",
		LastName:  "Patient",
		Age:       30,
		Priority:  priority,
		Windows:   []model.AvailabilityWindow{testWindow(t, 0, "09:00", "12:00")},
	}
}

func proposeRequest() ProposeRequest {
	return ProposeRequest{
		PsychologistID: 1,
		Slots:          scheduler.SlotConfig{HourStart: 9, HourEnd: 18, HorizonWeeks: 1},
		Limits:         scheduler.Limits{MaxPerDay: 8, MaxPerWeek: 40},
		Now:            monday,
	}
}

func TestProposeScheduleHappyPath(t *testing.T) {
	store := &mockScheduleStore{
		patients: []model.Patient{testPatient(t, 1, model.PriorityHigh)},
	}

	result, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), proposeRequest())
	require.NoError(t, err)

	// Monday 09:00-12:00 yields three candidate hours, but only one is
	// accepted: a patient gets at most one appointment per day.
	assert.Equal(t, 1, result.PatientCount)
	assert.Equal(t, 3, result.CandidateCount)
	require.Len(t, result.Schedule.Entries, 1)
	assert.Len(t, store.insertedSuggestions, 1)
}

func TestProposeScheduleDryRunSkipsPersistence(t *testing.T) {
	store := &mockScheduleStore{
		patients: []model.Patient{testPatient(t, 1, model.PriorityHigh)},
	}
	req := proposeRequest()
	req.DryRun = true

	result, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Schedule.Entries)
	assert.Empty(t, store.insertedSuggestions)
}

func TestProposeScheduleEmptyPanel(t *testing.T) {
	store := &mockScheduleStore{}

	result, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), proposeRequest())
	require.NoError(t, err)
	assert.True(t, result.Schedule.Empty())
	assert.Equal(t, scheduler.ReasonNoCandidates, result.Schedule.Reason)
}

func TestProposeScheduleTierFilter(t *testing.T) {
	store := &mockScheduleStore{
		patients: []model.Patient{
			testPatient(t, 1, model.PriorityHigh),
			testPatient(t, 2, model.PriorityLow),
		},
	}
	req := proposeRequest()
	req.Tiers = []model.Priority{model.PriorityHigh}

	result, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PatientCount)
	for _, e := range result.Schedule.Entries {
		assert.Equal(t, 1, e.PatientID)
	}
}

func TestProposeScheduleFullyBookedHorizon(t *testing.T) {
	busy := scheduler.BusySet{}
	for hour := 0; hour < 3; hour++ {
		busy.Add(monday.Add(time.Duration(hour) * time.Hour))
	}
	store := &mockScheduleStore{
		patients: []model.Patient{testPatient(t, 1, model.PriorityHigh)},
		busy:     busy,
	}

	result, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), proposeRequest())
	require.NoError(t, err)
	assert.True(t, result.Schedule.Empty())

	// Every candidate hour was already committed, so nothing was even
	// generated: availability never intersected a free slot.
	assert.Equal(t, scheduler.ReasonNoCandidates, result.Schedule.Reason)
	assert.Zero(t, result.CandidateCount)
}

func TestProposeScheduleStoreErrors(t *testing.T) {
	t.Run("patients fetch fails", func(t *testing.T) {
		store := &mockScheduleStore{getPatientsErr: errors.New("connection refused")}
		_, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), proposeRequest())
		assert.ErrorContains(t, err, "failed to fetch patients")
	})

	t.Run("busy fetch fails", func(t *testing.T) {
		store := &mockScheduleStore{
			patients:   []model.Patient{testPatient(t, 1, model.PriorityHigh)},
			getBusyErr: errors.New("connection refused"),
		}
		_, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), proposeRequest())
		assert.ErrorContains(t, err, "failed to fetch busy slots")
	})

	t.Run("persist fails", func(t *testing.T) {
		store := &mockScheduleStore{
			patients:  []model.Patient{testPatient(t, 1, model.PriorityHigh)},
			insertErr: errors.New("constraint violation"),
		}
		_, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), proposeRequest())
		assert.ErrorContains(t, err, "failed to persist suggestions")
	})
}

func TestProposeScheduleInvalidConfigFailsFast(t *testing.T) {
	store := &mockScheduleStore{getPatientsErr: errors.New("must not be called")}
	req := proposeRequest()
	req.Slots.HourEnd = req.Slots.HourStart

	_, err := ProposeSchedule(context.Background(), store, constantScorer(0.5), zap.NewNop(), req)
	var vErr *scheduler.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestProposeScheduleScoringErrorPropagates(t *testing.T) {
	store := &mockScheduleStore{
		patients: []model.Patient{testPatient(t, 1, model.PriorityHigh)},
	}
	scorer := scheduler.ScorerFunc(func(scheduler.FeatureVector) (float64, error) {
		return 0, errors.New("artifact mismatch")
	})

	_, err := ProposeSchedule(context.Background(), store, scorer, zap.NewNop(), proposeRequest())
	var sErr *scheduler.ScoringError
	require.ErrorAs(t, err, &sErr)
}
