// Package analytics implements the transaction analytics engine: time
// bucketing, aggregation, budget alerting, the spend forecast and the
// savings advisor. Everything here is a pure computation over data the
// caller already fetched; the reference instant is always an explicit
// parameter, never read from the ambient clock.
package analytics

import (
	"time"

	"fintrack/internal/core"
)

// LastNMonths returns the n calendar-month keys ending at and including the
// month containing now, oldest first. n must be >= 1; smaller values are
// treated as 1. Year boundaries roll over correctly.
func LastNMonths(now time.Time, n int) []core.MonthKey {
	if n < 1 {
		n = 1
	}
	keys := make([]core.MonthKey, n)
	k := core.MonthKeyOf(now)
	for i := n - 1; i >= 0; i-- {
		keys[i] = k
		k = k.Prev()
	}
	return keys
}

// MonthWindow returns the half-open interval [start, end) covering a single
// month.
func MonthWindow(key core.MonthKey) (start, end time.Time) {
	return key.Start(), key.Next().Start()
}

// TrailingMonthsWindow returns the half-open interval covering the last n
// calendar months ending at the month of now: from the first instant of the
// oldest month up to the first instant of the month after now.
func TrailingMonthsWindow(now time.Time, n int) (start, end time.Time) {
	keys := LastNMonths(now, n)
	return keys[0].Start(), keys[len(keys)-1].Next().Start()
}

// RollingDaysWindow returns the half-open interval covering exactly the
// trailing days*24h ending at now. The savings advisor uses this with 30
// days; it is a rolling window, not a calendar month.
func RollingDaysWindow(now time.Time, days int) (start, end time.Time) {
	end = now.UTC()
	return end.Add(-time.Duration(days) * 24 * time.Hour), end
}
