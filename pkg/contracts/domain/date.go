package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SaleDateLayout is the day/month/year text layout used by the source workbook.
	SaleDateLayout = "02/01/2006"
	// ISODateLayout is used for report file names and exported date columns.
	ISODateLayout = "2006-01-02"
)

// Day truncates t to its calendar date at UTC midnight. Every date held by
// the table store is normalized through Day so equality is date equality.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDay builds a calendar date.
func NewDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts the workbook's day/month/year layout and ISO dates.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{SaleDateLayout, ISODateLayout, "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: expected dd/mm/yyyy", s)
}

// DaysInRange returns every calendar date in [begin, end], inclusive.
// An empty slice is returned when end is before begin.
func DaysInRange(begin, end time.Time) []time.Time {
	begin, end = Day(begin), Day(end)
	if end.Before(begin) {
		return []time.Time{}
	}
	days := make([]time.Time, 0, int(end.Sub(begin).Hours()/24)+1)
	for d := begin; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// InRange reports whether day falls within [begin, end], inclusive.
func InRange(day, begin, end time.Time) bool {
	day = Day(day)
	return !day.Before(Day(begin)) && !day.After(Day(end))
}
