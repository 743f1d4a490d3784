// Package period computes the calendar ranges used to scope ledger
// aggregates. All functions are pure: boundaries derive from the supplied
// instant and its location.
package period

import "time"

// Range is an inclusive time span at second precision.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, boundaries included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// MonthRange returns the first instant of now's calendar month through
// 23:59:59 of its last day, in now's location.
func MonthRange(now time.Time) Range {
	year, month, _ := now.Date()
	loc := now.Location()
	return Range{
		Start: time.Date(year, month, 1, 0, 0, 0, 0, loc),
		// Day zero of the following month is the last day of this one.
		End: time.Date(year, month+1, 0, 23, 59, 59, 0, loc),
	}
}

// DayRange returns midnight through 23:59:59 of now's calendar day, in
// now's location.
func DayRange(now time.Time) Range {
	year, month, day := now.Date()
	loc := now.Location()
	return Range{
		Start: time.Date(year, month, day, 0, 0, 0, 0, loc),
		End:   time.Date(year, month, day, 23, 59, 59, 0, loc),
	}
}
