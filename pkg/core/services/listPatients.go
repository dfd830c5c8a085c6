package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/model"
)

// PatientStore is the read surface for listing a psychologist's panel.
type PatientStore interface {
	GetPatients(ctx context.Context, psychologistID int) ([]model.Patient, error)
}

// ListPatients fetches a psychologist's panel for display.
func ListPatients(ctx context.Context, store PatientStore, logger *zap.Logger, psychologistID int) ([]model.Patient, error) {
	logger.Debug("Fetching patients", zap.Int("psychologist_id", psychologistID))

	patients, err := store.GetPatients(ctx, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patients: %w", err)
	}

	logger.Info("Patients fetched", zap.Int("count", len(patients)))
	return patients, nil
}
