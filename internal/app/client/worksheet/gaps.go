package worksheet

import (
	"time"

	"fleetlog/internal/domain/usage"
)

// Gaps scans the merged row set's date column and returns every calendar day
// between the earliest and latest observed dates (inclusive bounds) that has
// no row, ascending. It cannot know about gaps before the first record or
// after the last. Rows whose date does not parse as a calendar date after
// truncation are ignored.
func Gaps(rows []usage.Row) []string {
	seen := make(map[string]bool)
	var minDate, maxDate string
	for _, row := range rows {
		date := row.Date
		if len(date) > len(usage.DateLayout) {
			date = date[:len(usage.DateLayout)]
		}
		if _, err := time.Parse(usage.DateLayout, date); err != nil {
			continue
		}
		seen[date] = true
		if minDate == "" || date < minDate {
			minDate = date
		}
		if date > maxDate {
			maxDate = date
		}
	}
	if len(seen) == 0 {
		return nil
	}

	start, _ := time.Parse(usage.DateLayout, minDate)
	end, _ := time.Parse(usage.DateLayout, maxDate)

	var gaps []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if date := d.Format(usage.DateLayout); !seen[date] {
			gaps = append(gaps, date)
		}
	}
	return gaps
}
