package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string. Anything else is rejected so that
// malformed availability rows fail at load time instead of being silently
// skipped during scheduling.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Minutes returns the time of day as minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is strictly earlier than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// AvailabilityWindow is one recurring weekly free-time range for an actor
// (patient or psychologist). Multiple windows per weekday are allowed and are
// never merged.
type AvailabilityWindow struct {
	Weekday time.Weekday
	Start   ClockTime
	End     ClockTime
}

// NewAvailabilityWindow parses and validates a window from raw row values.
func NewAvailabilityWindow(weekday int, start, end string) (AvailabilityWindow, error) {
	if weekday < 0 || weekday > 6 {
		return AvailabilityWindow{}, fmt.Errorf("invalid weekday %d: expected 0-6", weekday)
	}
	startT, err := ParseClockTime(start)
	if err != nil {
		return AvailabilityWindow{}, err
	}
	endT, err := ParseClockTime(end)
	if err != nil {
		return AvailabilityWindow{}, err
	}
	w := AvailabilityWindow{Weekday: weekdayFromISO(weekday), Start: startT, End: endT}
	if !w.Start.Before(w.End) {
		return AvailabilityWindow{}, fmt.Errorf("invalid window %s-%s: start must be before end", start, end)
	}
	return w, nil
}

// weekdayFromISO converts a Monday=0..Sunday=6 index, the convention used by
// the availability rows, to a time.Weekday.
func weekdayFromISO(d int) time.Weekday {
	return time.Weekday((d + 1) % 7)
}

// ISOWeekday converts a time.Weekday to the Monday=0..Sunday=6 convention.
func ISOWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}
