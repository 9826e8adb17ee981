package podds

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing match_date
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
	"02/01/2006",
	"02/01/2006 15:04",
}

// ParseMatchDate parses a raw match_date value and returns its calendar
// date at midnight UTC
func ParseMatchDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised match date %q", raw)
}

// Day strips the time of day, keeping the calendar date in t's own location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListDistinctDates returns every calendar date in the table, ascending
func ListDistinctDates(t *Table) ([]time.Time, error) {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for i, m := range t.Matches() {
		d, err := ParseMatchDate(m.MatchDate)
		if err != nil {
			return nil, fmt.Errorf("match %d (%s): %w", i+1, m.Teams, err)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// SelectByDate returns the matches whose raw match_date starts with
// date formatted as YYYY-MM-DD, so "2024-03-15 18:00" matches 2024-03-15
func SelectByDate(t *Table, date time.Time) []Match {
	prefix := date.Format(DateLayout)
	var out []Match
	for _, m := range t.Matches() {
		if strings.HasPrefix(m.MatchDate, prefix) {
			out = append(out, m)
		}
	}
	return out
}

// ClampDate bounds date to [min, max]. Zero bounds are ignored.
func ClampDate(date, min, max time.Time) time.Time {
	if !min.IsZero() && date.Before(min) {
		return min
	}
	if !max.IsZero() && date.After(max) {
		return max
	}
	return date
}
