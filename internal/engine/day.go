package engine

import "time"

// Two predicates compare dates on purpose. Event membership (toggle) uses
// ExactEquals while rendering matches by SameCalendarDay. Values are always
// read in their own location.

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ExactEquals reports whether a and b denote the same instant.
func ExactEquals(a, b time.Time) bool {
	return a.Equal(b)
}

// SameCalendarDay reports whether a and b share year, month and day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BeforeDay reports whether a's calendar date is strictly before b's.
// Year, month and day are compared in order, so the result holds across
// year boundaries.
func BeforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
