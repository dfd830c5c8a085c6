package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// GetBusySlots returns the (date, hour) set of the psychologist's
// non-cancelled appointments inside [start, end). Timestamps are truncated to
// the hour, matching the slot grid.
func (db *DB) GetBusySlots(ctx context.Context, psychologistID int, start, end time.Time) (scheduler.BusySet, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT starts_at
		FROM appointments
		WHERE psychologist_id = $1
		  AND starts_at >= $2 AND starts_at < $3
		  AND status != 'cancelled'
	`, psychologistID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	busy := scheduler.BusySet{}
	for rows.Next() {
		var startsAt time.Time
		if err := rows.Scan(&startsAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		busy.Add(startsAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return busy, nil
}
