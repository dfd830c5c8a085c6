package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// InsertSuggestions writes the accepted schedule entries back as pending
// suggested appointments in a single transaction.
func (db *DB) InsertSuggestions(ctx context.Context, psychologistID int, entries []scheduler.Candidate) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO suggested_appointments
				(id, psychologist_id, patient_id, starts_at, priority, score, origin, state, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, 'generated', 'pending', $7)
		`, uuid.New().String(), psychologistID, e.PatientID, e.Start, string(e.Priority), e.Score, now)
		if err != nil {
			return fmt.Errorf("failed to insert suggestion for patient %d: %w", e.PatientID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit suggestions: %w", err)
	}

	return nil
}
