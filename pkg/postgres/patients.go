package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SMUK0/RandomForest/pkg/core/model"
)

// GetPatients loads a psychologist's panel: patient records joined with the
// timestamp of their last completed session, plus each patient's active
// availability windows. Rows with malformed availability times or an unknown
// clinical priority fail the load; scheduling never starts on a partially
// valid panel.
func (db *DB) GetPatients(ctx context.Context, psychologistID int) ([]model.Patient, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.age, p.clinical_priority,
		       MAX(a.starts_at) FILTER (WHERE a.status = 'completed') AS last_session_at
		FROM patients p
		LEFT JOIN appointments a ON a.patient_id = p.id
		WHERE p.psychologist_id = $1
		GROUP BY p.id, p.first_name, p.last_name, p.age, p.clinical_priority
		ORDER BY p.id
	`, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []model.Patient
	index := make(map[int]int)
	for rows.Next() {
		var (
			p           model.Patient
			age         *int
			rawPriority string
			lastSession *time.Time
		)
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &age, &rawPriority, &lastSession); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		if age != nil {
			p.Age = *age
		} else {
			p.Age = defaultPatientAge
		}
		p.Priority, err = model.ParsePriority(rawPriority)
		if err != nil {
			return nil, fmt.Errorf("patient %d: %w", p.ID, err)
		}
		p.LastSessionAt = lastSession

		index[p.ID] = len(patients)
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	if len(patients) == 0 {
		return nil, nil
	}

	if err := db.attachAvailability(ctx, psychologistID, patients, index); err != nil {
		return nil, err
	}

	return patients, nil
}

// defaultPatientAge substitutes for records that predate the age column.
const defaultPatientAge = 30

func (db *DB) attachAvailability(ctx context.Context, psychologistID int, patients []model.Patient, index map[int]int) error {
	rows, err := db.pool.Query(ctx, `
		SELECT d.patient_id, d.weekday, d.start_time, d.end_time
		FROM patient_availability d
		JOIN patients p ON p.id = d.patient_id
		WHERE d.active AND p.psychologist_id = $1
		ORDER BY d.patient_id, d.weekday, d.start_time
	`, psychologistID)
	if err != nil {
		return fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			patientID, weekday int
			start, end         string
		)
		if err := rows.Scan(&patientID, &weekday, &start, &end); err != nil {
			return fmt.Errorf("failed to scan availability: %w", err)
		}

		window, err := model.NewAvailabilityWindow(weekday, start, end)
		if err != nil {
			return fmt.Errorf("availability for patient %d: %w", patientID, err)
		}

		i, ok := index[patientID]
		if !ok {
			continue
		}
		patients[i].Windows = append(patients[i].Windows, window)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating availability: %w", err)
	}

	return nil
}
