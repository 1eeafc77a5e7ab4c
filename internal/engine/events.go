package engine

import (
	"maps"
	"slices"
	"time"
)

// instant is a comparable key for a point in time, independent of location
// and monotonic reading.
type instant struct {
	sec  int64
	nsec int
}

func instantOf(t time.Time) instant {
	return instant{sec: t.Unix(), nsec: t.Nanosecond()}
}

// EventSet is an immutable set of marked dates.
//
// Membership is by instant (ExactEquals): toggling a value off requires a
// value equal to the one inserted. HasDay, used for rendering, matches any
// member on the same calendar day. The zero value is an empty set.
type EventSet struct {
	dates map[instant]time.Time
}

// NewEventSet builds a set from dates. Duplicated instants collapse.
func NewEventSet(dates ...time.Time) EventSet {
	s := EventSet{dates: make(map[instant]time.Time, len(dates))}
	for _, d := range dates {
		s.dates[instantOf(d)] = d
	}
	return s
}

// Len returns the number of members.
func (s EventSet) Len() int {
	return len(s.dates)
}

// Contains reports whether date is a member by exact equality.
func (s EventSet) Contains(date time.Time) bool {
	_, ok := s.dates[instantOf(date)]
	return ok
}

// HasDay reports whether any member falls on the same calendar day as day.
func (s EventSet) HasDay(day time.Time) bool {
	for _, d := range s.dates {
		if SameCalendarDay(d, day) {
			return true
		}
	}
	return false
}

// With returns a copy of the set including date.
func (s EventSet) With(date time.Time) EventSet {
	out := s.clone()
	out.dates[instantOf(date)] = date
	return out
}

// Without returns a copy of the set excluding date.
func (s EventSet) Without(date time.Time) EventSet {
	out := s.clone()
	delete(out.dates, instantOf(date))
	return out
}

// Toggle removes date when present and inserts it otherwise.
func (s EventSet) Toggle(date time.Time) EventSet {
	if s.Contains(date) {
		return s.Without(date)
	}
	return s.With(date)
}

// Dates returns the members in chronological order.
func (s EventSet) Dates() []time.Time {
	out := slices.Collect(maps.Values(s.dates))
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// Equal reports whether both sets hold the same instants.
func (s EventSet) Equal(other EventSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for k := range s.dates {
		if _, ok := other.dates[k]; !ok {
			return false
		}
	}
	return true
}

func (s EventSet) clone() EventSet {
	out := EventSet{dates: make(map[instant]time.Time, len(s.dates)+1)}
	maps.Copy(out.dates, s.dates)
	return out
}
