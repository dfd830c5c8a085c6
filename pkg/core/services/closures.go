package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// ExpandClosures materializes the configured closure recurrence rules into
// the set of closed calendar days within [start, end). Rules are anchored
// just before the horizon so occurrences on the first day are not missed.
func ExpandClosures(rules []string, start, end time.Time) (map[scheduler.Date]struct{}, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	closed := make(map[scheduler.Date]struct{})
	for i, raw := range rules {
		rule, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid closure rule %d: %w", i, err)
		}
		rule.DTStart(start.AddDate(0, 0, -1))
		for _, occurrence := range rule.Between(start.AddDate(0, 0, -1), end, true) {
			closed[scheduler.DateOf(occurrence)] = struct{}{}
		}
	}
	return closed, nil
}
