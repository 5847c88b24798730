package businesscontext

import (
	"time"

	"github.com/rooted/analytics/internal/domain/period"
)

// Matched groups the entries relevant to one report window
type Matched struct {
	Direct     []Entry `json:"direct"`
	AlwaysOn   []Entry `json:"alwaysOn"`
	Comparison []Entry `json:"comparison"`
}

// IsEmpty reports whether nothing matched
func (m Matched) IsEmpty() bool {
	return len(m.Direct) == 0 && len(m.AlwaysOn) == 0 && len(m.Comparison) == 0
}

// Total returns the number of matched entries
func (m Matched) Total() int {
	return len(m.Direct) + len(m.AlwaysOn) + len(m.Comparison)
}

// Filter buckets entries for the report window [reportStart, reportEnd].
//
// An always-on entry is kept regardless of dates. Otherwise an entry is direct
// when start <= reportEnd and (end is open or end >= reportStart). Entries that
// miss the window but are comparison-significant and overlap the same window one
// year earlier land in Comparison. Everything else is excluded. Each entry lands
// in at most one bucket.
func Filter(entries []Entry, reportStart, reportEnd time.Time) Matched {
	m := Matched{
		Direct:     []Entry{},
		AlwaysOn:   []Entry{},
		Comparison: []Entry{},
	}
	window := period.Range{Start: day(reportStart), End: day(reportEnd)}
	yearAgo := window.YearAgo()

	for _, e := range entries {
		switch {
		case e.AlwaysOn || IsAlwaysIncluded(e.Category):
			m.AlwaysOn = append(m.AlwaysOn, e)
		case overlaps(e.StartDate, e.EndDate, window):
			m.Direct = append(m.Direct, e)
		case inComparisonWindow(e, yearAgo):
			m.Comparison = append(m.Comparison, e)
		}
	}
	return m
}

// FilterRange is Filter over a resolved period
func FilterRange(entries []Entry, r period.Range) Matched {
	return Filter(entries, r.Start, r.End)
}

// overlaps reports whether [start, end] shares a day with window. An entry
// starting before the window overlaps when it is still running at its start.
func overlaps(start time.Time, end *time.Time, window period.Range) bool {
	s := day(start)
	if window.Contains(s) {
		return true
	}
	if s.After(window.End) {
		return false
	}
	return end == nil || period.Range{Start: s, End: day(*end)}.Contains(window.Start)
}

func inComparisonWindow(e Entry, yearAgo period.Range) bool {
	if !e.ComparisonSignificant {
		return false
	}
	if CategoryFor(e.Category).ComparisonWindowDays <= 0 {
		return false
	}
	return overlaps(e.StartDate, e.EffectiveEnd(), yearAgo)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
