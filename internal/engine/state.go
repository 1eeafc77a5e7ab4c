package engine

import "time"

// State is the complete, immutable state of a calendar. Transitions go
// through Reduce and never modify the receiver.
type State struct {
	// Reference is the displayed month.
	Reference YearMonth
	// Today is the anchor day used for the past and today classification.
	Today time.Time
	// Events holds the marked dates.
	Events EventSet
	// FirstWeekday is the weekday of the first grid column.
	FirstWeekday time.Weekday
}

// NewState returns a state showing the month of today with no event.
func NewState(today time.Time, firstWeekday time.Weekday) State {
	return State{
		Reference:    MonthOf(today),
		Today:        DayStart(today),
		Events:       NewEventSet(),
		FirstWeekday: firstWeekday,
	}
}

// Grid computes the grid of the reference month.
func (s State) Grid() Grid {
	return computeGrid(s, s.Reference)
}

// GridFor computes the grid of any month with the state's anchor and events.
func (s State) GridFor(ref YearMonth) Grid {
	return computeGrid(s, ref)
}

// Action is a state transition. The set of actions is closed.
type Action interface {
	apply(State) State
}

// AdvanceMonth moves the reference month by Delta months.
type AdvanceMonth struct {
	Delta int
}

func (a AdvanceMonth) apply(s State) State {
	s.Reference = s.Reference.AddMonths(a.Delta)
	return s
}

// ToggleEvent removes Date from the events when present (exact equality)
// and inserts it otherwise.
type ToggleEvent struct {
	Date time.Time
}

func (a ToggleEvent) apply(s State) State {
	s.Events = s.Events.Toggle(a.Date)
	return s
}

// ReplaceEvents swaps the whole event set.
type ReplaceEvents struct {
	Events EventSet
}

func (a ReplaceEvents) apply(s State) State {
	s.Events = a.Events
	return s
}

// SetFirstWeekday changes the first grid column.
type SetFirstWeekday struct {
	Weekday time.Weekday
}

func (a SetFirstWeekday) apply(s State) State {
	s.FirstWeekday = a.Weekday
	return s
}

// Reduce returns the state after applying a. A nil action is a no-op.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}
