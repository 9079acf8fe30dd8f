package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey is the canonical year-month bucket used for all time-based
// grouping. Its string form is "YYYY-MM". Bucketing is done in UTC.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the bucket containing t, interpreted in UTC.
func MonthKeyOf(t time.Time) MonthKey {
	u := t.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

// ParseMonthKey parses the canonical "YYYY-MM" form. A malformed key is a
// ValidationError, never silently coerced.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return MonthKey{}, NewValidationError("malformed month %q: want YYYY-MM", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return MonthKey{}, NewValidationError("malformed month %q: bad year", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || m < 1 || m > 12 {
		return MonthKey{}, NewValidationError("malformed month %q: bad month", s)
	}
	return MonthKey{Year: y, Month: time.Month(m)}, nil
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Start returns the first instant of the month in UTC.
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar month, rolling over year boundaries.
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Prev returns the preceding calendar month, rolling over year boundaries.
func (k MonthKey) Prev() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Contains reports whether t falls inside this month, by the half-open
// interval Start() <= t < Next().Start().
func (k MonthKey) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(k.Start()) && u.Before(k.Next().Start())
}
