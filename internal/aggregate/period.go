// Package aggregate groups decoded records into calendar-month or label
// buckets and reindexes sparse results over a complete range.
package aggregate

import (
	"fmt"
	"time"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the YYYY-MM form produced by String.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p is earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Start returns the first instant of the month in loc.
func (p Period) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MonthRange returns every month from start through end inclusive. It is
// empty when end precedes start.
func MonthRange(start, end Period) []Period {
	var out []Period
	for p := start; !end.Before(p); p = p.Next() {
		out = append(out, p)
	}
	return out
}

// YearRange returns the twelve months of year.
func YearRange(year int) []Period {
	return MonthRange(Period{Year: year, Month: time.January}, Period{Year: year, Month: time.December})
}
