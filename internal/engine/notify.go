package engine

import "time"

// DayEventKind tells which interaction produced a DayEvent.
type DayEventKind int

const (
	DayClicked DayEventKind = iota
	DayLongPressed
)

func (k DayEventKind) String() string {
	if k == DayLongPressed {
		return "long_pressed"
	}
	return "clicked"
}

// DayEvent notifies the embedding application of an interaction with a day.
type DayEvent struct {
	Kind DayEventKind
	Date time.Time
}

// DayEventHandler receives every DayEvent of a calendar.
type DayEventHandler func(DayEvent)
