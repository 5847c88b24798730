// Package period resolves reporting period tokens (7d, 30d, mtd, ytd,
// previous-month) into concrete calendar date ranges.
package period

import (
	"fmt"
	"time"

	"github.com/rooted/analytics/internal/domain/shared"
)

// DateLayout is the wire format of every date in the API
const DateLayout = "2006-01-02"

// Period tokens
const (
	SevenDays     = "7d"
	ThirtyDays    = "30d"
	MonthToDate   = "mtd"
	YearToDate    = "ytd"
	PreviousMonth = "previous-month"
	Custom        = "custom"
)

// Range is an inclusive calendar date range
type Range struct {
	Token string
	Start time.Time
	End   time.Time
}

// Resolve converts a token into a date range relative to now.
// Unknown tokens resolve as 30d.
func Resolve(token string, now time.Time) Range {
	today := truncateDay(now)
	r := Range{Token: token, End: today}

	switch token {
	case SevenDays:
		r.Start = today.AddDate(0, 0, -7)
	case MonthToDate:
		r.Start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	case YearToDate:
		r.Start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	case PreviousMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		r.Start = firstOfThis.AddDate(0, -1, 0)
		r.End = firstOfThis.AddDate(0, 0, -1)
	case ThirtyDays:
		r.Start = today.AddDate(0, 0, -30)
	default:
		r.Token = ThirtyDays
		r.Start = today.AddDate(0, 0, -30)
	}
	return r
}

// ParseCustom validates a user supplied YYYY-MM-DD range
func ParseCustom(start, end string) (Range, error) {
	if start == "" || end == "" {
		return Range{}, shared.ErrInvalidInput.WithMessage("startDate and endDate query params are required (format: YYYY-MM-DD)")
	}
	s, err1 := time.Parse(DateLayout, start)
	e, err2 := time.Parse(DateLayout, end)
	if err1 != nil || err2 != nil {
		return Range{}, shared.ErrInvalidInput.WithMessage("Invalid date format. Use YYYY-MM-DD")
	}
	if s.After(e) {
		return Range{}, shared.ErrInvalidInput.WithMessage("startDate must be on or before endDate")
	}
	return Range{Token: Custom, Start: s, End: e}, nil
}

// StartString returns the start as YYYY-MM-DD
func (r Range) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns the end as YYYY-MM-DD
func (r Range) EndString() string { return r.End.Format(DateLayout) }

// Days returns the number of days between start and end
func (r Range) Days() int {
	s := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// DaysInclusive counts both endpoints
func (r Range) DaysInclusive() int {
	return r.Days() + 1
}

// SQL renders a WHERE fragment over the given date column.
// The dates come from time.Format so they are safe to inline.
func (r Range) SQL(column string) string {
	return fmt.Sprintf("%s >= '%s' AND %s <= '%s'", column, r.StartString(), column, r.EndString())
}

// YearAgo shifts the range back one calendar year
func (r Range) YearAgo() Range {
	return Range{Token: r.Token, Start: r.Start.AddDate(-1, 0, 0), End: r.End.AddDate(-1, 0, 0)}
}

// Contains reports whether t falls inside the range (day granularity)
func (r Range) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// DashboardDays converts a dashboard period token into a lookback in days
func DashboardDays(token string, now time.Time) int {
	switch token {
	case MonthToDate:
		// days elapsed in the current month, never zero
		if d := now.Day() - 1; d > 0 {
			return d
		}
		return 1
	case ThirtyDays:
		return 30
	case YearToDate:
		return now.YearDay()
	default:
		return 7
	}
}

// Label is the human readable name of a token
func Label(token string) string {
	switch token {
	case SevenDays:
		return "Last 7 Days"
	case MonthToDate:
		return "Month to Date"
	case ThirtyDays:
		return "Last 30 Days"
	case YearToDate:
		return "Year to Date"
	case PreviousMonth:
		return "Previous Month"
	default:
		return token
	}
}

// Key maps a token to the periodData key used in dashboard payloads
func Key(token string) string {
	switch token {
	case SevenDays:
		return "sevenDay"
	case ThirtyDays:
		return "thirtyDay"
	case YearToDate:
		return "yearToDate"
	case Custom:
		return "custom"
	default:
		return "monthToDate"
	}
}

// IsDashboardToken reports whether the token is accepted by the dashboard
func IsDashboardToken(token string) bool {
	switch token {
	case SevenDays, MonthToDate, ThirtyDays, YearToDate:
		return true
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
