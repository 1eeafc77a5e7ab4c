package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-kalendar/internal/config"
)

// Engine is the mutable holder of a calendar State for a host UI. It has no
// internal locking: callers serialize access, as UI events arrive on a
// single thread.
type Engine struct {
	state State
	log   *slog.Logger
}

// New creates an engine anchored on clock's current day, showing its month.
func New(clock Clock, firstWeekday time.Weekday) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{
		state: NewState(clock.Now(), firstWeekday),
		log:   slog.With(config.LogKeyComponent, config.CompEngine),
	}
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Dispatch applies a and returns the new state.
func (e *Engine) Dispatch(a Action) State {
	e.state = Reduce(e.state, a)
	return e.state
}

// ComputeGrid returns the grid for ref. It does not change the state.
func (e *Engine) ComputeGrid(ref YearMonth) Grid {
	return e.state.GridFor(ref)
}

// Grid returns the grid of the current reference month.
func (e *Engine) Grid() Grid {
	return e.state.Grid()
}

// Reference returns the displayed month.
func (e *Engine) Reference() YearMonth {
	return e.state.Reference
}

// Today returns the anchor day.
func (e *Engine) Today() time.Time {
	return e.state.Today
}

// Events returns the marked dates.
func (e *Engine) Events() EventSet {
	return e.state.Events
}

// AdvanceMonth moves the reference month by delta months. The caller
// recomputes the grid afterwards.
func (e *Engine) AdvanceMonth(delta int) {
	old := e.state.Reference
	e.Dispatch(AdvanceMonth{Delta: delta})
	e.log.Debug(config.MsgMonthChanged,
		config.LogKeyDelta, delta,
		config.LogKeyOld, old.String(),
		config.LogKeyNew, e.state.Reference.String())
}

// ShowMonth moves the reference month to ym.
func (e *Engine) ShowMonth(ym YearMonth) {
	e.AdvanceMonth(e.state.Reference.MonthsUntil(ym))
}

// ToggleEvent marks or unmarks date, by exact equality.
func (e *Engine) ToggleEvent(date time.Time) {
	e.Dispatch(ToggleEvent{Date: date})
	e.log.Debug(config.MsgEventToggled,
		config.LogKeyDate, date.Format(config.DayLayout),
		config.LogKeyMarked, e.state.Events.Contains(date))
}

// ReplaceEventSet swaps the whole event set.
func (e *Engine) ReplaceEventSet(events EventSet) {
	e.Dispatch(ReplaceEvents{Events: events})
	e.log.Debug(config.MsgEventsReplaced, config.LogKeyCount, events.Len())
}

// SetFirstWeekday changes the first grid column.
func (e *Engine) SetFirstWeekday(day time.Weekday) {
	e.Dispatch(SetFirstWeekday{Weekday: day})
}
