package core

import "time"

// Window is the inclusive date range over which a limit's ceiling is
// evaluated: first through last calendar day of the period containing the
// expense date.
type Window struct {
	First Date
	Last  Date
}

// Contains reports whether d falls inside the window, inclusive on both ends.
func (w Window) Contains(d Date) bool {
	t := d.Time
	return !t.Before(w.First.Time) && !t.After(w.Last.Time)
}

// PeriodWindow computes the evaluation window for a limit period around the
// given date. For Monthly the last day is the actual days-in-month of that
// year and month, never a fixed 30 or 31.
func PeriodWindow(p Period, d Date) Window {
	switch p {
	case Monthly:
		fallthrough
	default:
		first := time.Date(d.Year(), d.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
		// day zero of the next month normalizes to this month's last day
		last := time.Date(d.Year(), d.Time.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		return Window{First: Date{Time: first}, Last: Date{Time: last}}
	}
}

// MonthsBack returns the first day of the month n months before d.
// Used by the trend and chart queries to anchor their range.
func MonthsBack(d Date, n int) Date {
	t := time.Date(d.Year(), d.Time.Month()-time.Month(n-1), 1, 0, 0, 0, 0, time.UTC)
	return Date{Time: t}
}
