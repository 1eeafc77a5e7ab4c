package engine

import (
	"time"

	"github.com/tartampluch/go-kalendar/internal/config"
)

// GridSize is the number of cells in a grid: six weeks of seven days.
const GridSize = config.GridWeeks * config.GridColumns

// CellStyle is the render classification of a day cell.
type CellStyle int

const (
	StyleNormal CellStyle = iota
	StyleEvent
	StylePast
	StyleOutside
	StyleToday
)

func (s CellStyle) String() string {
	switch s {
	case StyleEvent:
		return "event"
	case StylePast:
		return "past"
	case StyleOutside:
		return "outside"
	case StyleToday:
		return "today"
	default:
		return "normal"
	}
}

// DayCell describes one grid entry. The flags are computed independently of
// each other; Style applies the display priority.
type DayCell struct {
	// Date is midnight of the day, in the anchor day's location.
	Date         time.Time
	OutsideMonth bool
	Past         bool
	Today        bool
	HasEvent     bool
}

// Style returns the classification that drives colour and weight.
// A marked day wins over everything, then past, outside month and today.
func (c DayCell) Style() CellStyle {
	switch {
	case c.HasEvent:
		return StyleEvent
	case c.Past:
		return StylePast
	case c.OutsideMonth:
		return StyleOutside
	case c.Today:
		return StyleToday
	default:
		return StyleNormal
	}
}

// Grid is the ordered sequence of 42 consecutive days shown for a month.
type Grid [GridSize]DayCell

// Start returns the first day of the grid.
func (g Grid) Start() time.Time {
	return g[0].Date
}

// End returns the last day of the grid.
func (g Grid) End() time.Time {
	return g[GridSize-1].Date
}

// Index returns the position of the cell on the same calendar day as t.
func (g Grid) Index(t time.Time) (int, bool) {
	if BeforeDay(t, g.Start()) || BeforeDay(g.End(), t) {
		return 0, false
	}
	for i, c := range g {
		if SameCalendarDay(c.Date, t) {
			return i, true
		}
	}
	return 0, false
}

// gridStart returns the first visible day for ref: the 1st of the month
// stepped back to the start of its week.
func gridStart(ref YearMonth, firstWeekday time.Weekday, loc *time.Location) time.Time {
	first := ref.First(loc)
	offset := (int(first.Weekday()) - int(firstWeekday) + 7) % 7
	return first.AddDate(0, 0, -offset)
}

// computeGrid fills the grid for ref from the state's anchor day and events.
func computeGrid(s State, ref YearMonth) Grid {
	loc := s.Today.Location()
	start := gridStart(ref, s.FirstWeekday, loc)
	y, m, d := start.Date()

	var g Grid
	for i := range g {
		// Rebuilt from the start date each time so every cell stays at midnight.
		day := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		g[i] = DayCell{
			Date:         day,
			HasEvent:     s.Events.HasDay(day),
			Past:         BeforeDay(day, s.Today),
			OutsideMonth: !ref.Contains(day),
			Today:        SameCalendarDay(day, s.Today),
		}
	}
	return g
}
