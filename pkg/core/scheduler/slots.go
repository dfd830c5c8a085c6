package scheduler

import (
	"fmt"
	"iter"
	"time"
)

// Date is a calendar day, used as part of conflict keys so that two
// timestamps on the same day compare equal regardless of clock time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar day of a timestamp.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// SlotKey identifies one bookable hour on the psychologist's calendar.
type SlotKey struct {
	Date Date
	Hour int
}

// BusySet is the set of slots already committed for the psychologist within
// the scheduling horizon. A slot in this set is never proposed.
type BusySet map[SlotKey]struct{}

// Contains reports whether the hour starting at t is already committed.
func (b BusySet) Contains(t time.Time) bool {
	_, ok := b[SlotKey{Date: DateOf(t), Hour: t.Hour()}]
	return ok
}

// Add marks the hour starting at t as committed.
func (b BusySet) Add(t time.Time) {
	b[SlotKey{Date: DateOf(t), Hour: t.Hour()}] = struct{}{}
}

// SlotConfig bounds slot generation: the working day and the forward horizon.
type SlotConfig struct {
	// HourStart and HourEnd delimit the working day; slots are generated for
	// hours in [HourStart, HourEnd).
	HourStart int
	HourEnd   int

	// HorizonWeeks is the number of weeks ahead to generate slots for.
	HorizonWeeks int

	// ClosedDates are whole days excluded from generation, e.g. public
	// holidays expanded from the configured closure rules.
	ClosedDates map[Date]struct{}
}

// Validate rejects configurations that would generate nothing or loop
// forever. It runs before any slot is produced.
func (c SlotConfig) Validate() error {
	if c.HourStart < 0 || c.HourStart > 23 {
		return &ValidationError{Field: "hour_start", Reason: fmt.Sprintf("%d is out of range", c.HourStart)}
	}
	if c.HourEnd < 1 || c.HourEnd > 24 {
		return &ValidationError{Field: "hour_end", Reason: fmt.Sprintf("%d is out of range", c.HourEnd)}
	}
	if c.HourStart >= c.HourEnd {
		return &ValidationError{
			Field:  "hour_start",
			Reason: fmt.Sprintf("hour_start (%d) must be before hour_end (%d)", c.HourStart, c.HourEnd),
		}
	}
	if c.HorizonWeeks <= 0 {
		return &ValidationError{Field: "horizon_weeks", Reason: fmt.Sprintf("%d must be positive", c.HorizonWeeks)}
	}
	return nil
}

func (c SlotConfig) closed(d Date) bool {
	_, ok := c.ClosedDates[d]
	return ok
}

// Slots returns a lazy sequence of hourly start times from base (truncated to
// the hour) through HorizonWeeks weeks later, restricted to the working day.
// Outside working hours the sequence jumps straight to the next day's opening
// hour instead of stepping through the closed overnight period, so iteration
// cost is proportional to the number of bookable hours.
//
// The caller must Validate the config first; Slots assumes it is sound.
func Slots(base time.Time, cfg SlotConfig) iter.Seq[time.Time] {
	start := time.Date(base.Year(), base.Month(), base.Day(), base.Hour(), 0, 0, 0, base.Location())
	end := start.AddDate(0, 0, 7*cfg.HorizonWeeks)
	return func(yield func(time.Time) bool) {
		cur := start
		for cur.Before(end) {
			if cfg.HourStart <= cur.Hour() && cur.Hour() < cfg.HourEnd && !cfg.closed(DateOf(cur)) {
				if !yield(cur) {
					return
				}
				cur = cur.Add(time.Hour)
				continue
			}
			next := cur.AddDate(0, 0, 1)
			cur = time.Date(next.Year(), next.Month(), next.Day(), cfg.HourStart, 0, 0, 0, cur.Location())
		}
	}
}
