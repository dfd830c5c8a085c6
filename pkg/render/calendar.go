package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SMUK0/RandomForest/pkg/core/model"
	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// WriteCalendar prints a week-by-week grid of the proposals, hours down the
// side and weekdays across, each cell showing the patient alias and the
// upper-cased first letter of the priority tier.
func WriteCalendar(w io.Writer, entries []scheduler.Candidate, weeks, hourStart, hourEnd int, title string) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "\n[Calendar %s] No results.\n", title)
		return
	}

	// Grid starts on the Monday of the earliest entry's week.
	earliest := entries[0].Start
	for _, e := range entries[1:] {
		if e.Start.Before(earliest) {
			earliest = e.Start
		}
	}
	gridStart := earliest.AddDate(0, 0, -model.ISOWeekday(earliest.Weekday()))
	gridStart = time.Date(gridStart.Year(), gridStart.Month(), gridStart.Day(), 0, 0, 0, 0, gridStart.Location())

	cells := make(map[scheduler.SlotKey]string)
	for _, e := range entries {
		key := e.SlotKey()
		if _, taken := cells[key]; taken {
			continue
		}
		label := e.PatientAlias
		if len(e.Priority) > 0 {
			label += "-" + strings.ToUpper(string(e.Priority[0]))
		}
		cells[key] = label
	}

	fmt.Fprintf(w, "\n=== Calendar %s ===\n", title)
	for week := 0; week < weeks; week++ {
		weekStart := gridStart.AddDate(0, 0, 7*week)
		weekEnd := weekStart.AddDate(0, 0, 6)
		fmt.Fprintf(w, "\nWEEK %d: %s - %s\n", week+1,
			weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))

		headers := make([]string, 7)
		for d := 0; d < 7; d++ {
			day := weekStart.AddDate(0, 0, d)
			headers[d] = fmt.Sprintf("%s %3s", day.Format("02-01"), dayNames[d])
		}
		header := "Hour  | " + strings.Join(headers, " | ")
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, strings.Repeat("-", len(header)))

		for hour := hourStart; hour < hourEnd; hour++ {
			cols := make([]string, 7)
			for d := 0; d < 7; d++ {
				day := weekStart.AddDate(0, 0, d)
				label := cells[scheduler.SlotKey{Date: scheduler.DateOf(day), Hour: hour}]
				cols[d] = fmt.Sprintf("%-9s", label)
			}
			fmt.Fprintf(w, "%02d:00 | %s\n", hour, strings.Join(cols, " | "))
		}
	}
}
