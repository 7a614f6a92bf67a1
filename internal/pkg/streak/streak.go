// Package streak computes consecutive-day check-in streaks over calendar days.
package streak

import (
	"sort"
	"time"
)

// DayLayout is the calendar-day format stored on check-ins.
const DayLayout = "2006-01-02"

// DayKey returns the calendar day of t in loc. A nil loc means UTC.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// Compute returns the number of consecutive calendar days ending at the most
// recent entry of days. The streak is 0 when the most recent day lies before
// yesterday relative to today. Duplicate days count once and unparsable
// entries are ignored; order of days does not matter.
func Compute(days []string, today string) int {
	ref, err := time.Parse(DayLayout, today)
	if err != nil {
		return 0
	}

	parsed := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(DayLayout, d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return 0
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].After(parsed[j]) })

	yesterday := ref.AddDate(0, 0, -1)
	if parsed[0].Before(yesterday) {
		return 0
	}

	count := 0
	expected := parsed[0]
	for i, d := range parsed {
		if i > 0 && d.Equal(parsed[i-1]) {
			continue
		}
		if !d.Equal(expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}
