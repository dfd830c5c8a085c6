// Package render formats a packed schedule for the console and for CSV
// export.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/SMUK0/RandomForest/pkg/core/model"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WriteTable prints the proposals as an aligned table.
func WriteTable(w io.Writer, entries []scheduler.Candidate) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Day\tDate\tHour\tPatient\tPriority\tScore")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%02d:00\t%s\t%s\t%.3f\n",
			dayNames[model.ISOWeekday(e.Start.Weekday())],
			e.Start.Format("2006-01-02"),
			e.Start.Hour(),
			e.PatientAlias,
			e.Priority,
			e.Score,
		)
	}
	return tw.Flush()
}

// WriteCSV exports the proposals with one row per accepted appointment.
func WriteCSV(w io.Writer, entries []scheduler.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"patient_id", "patient", "date", "hour", "priority", "score"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			strconv.Itoa(e.PatientID),
			e.PatientAlias,
			e.Start.Format("2006-01-02"),
			fmt.Sprintf("%02d:00", e.Start.Hour()),
			string(e.Priority),
			strconv.FormatFloat(e.Score, 'f', 6, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
