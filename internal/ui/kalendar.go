package ui

import (
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

// Names supplies the calendar names shown by a KalendarView.
type Names struct {
	Month        func(time.Month) string
	MonthShort   func(time.Month) string
	Weekday      func(time.Weekday) string
	WeekdayShort func(time.Weekday) string
}

// EnglishNames returns the names of the Go time package.
func EnglishNames() Names {
	return Names{
		Month:        func(m time.Month) string { return m.String() },
		MonthShort:   func(m time.Month) string { return m.String()[:3] },
		Weekday:      func(d time.Weekday) string { return d.String() },
		WeekdayShort: func(d time.Weekday) string { return d.String()[:2] },
	}
}

// KalendarView is a month calendar widget: a title with navigation buttons,
// a weekday header and a 6x7 grid of days. It renders the grid computed by
// an engine.Engine and forwards day interactions to a DayEventHandler.
//
// All methods must be called from the UI goroutine.
type KalendarView struct {
	widget.BaseWidget

	// OnEventsChanged is called after a tap toggled a marked day.
	OnEventsChanged func(engine.EventSet)
	// OnMonthChanged is called after the displayed month changed.
	OnMonthChanged func(engine.YearMonth)

	engine     *engine.Engine
	attrs      config.Attrs
	lang       string
	names      Names
	onDayEvent engine.DayEventHandler
	log        *slog.Logger

	title    *widget.Label
	prev     *widget.Button
	next     *widget.Button
	weekdays [config.GridColumns]*widget.Label
	cells    [engine.GridSize]*dayCell
	content  fyne.CanvasObject
}

// NewKalendarView creates a calendar widget over eng. Invalid attributes are
// replaced by their default and logged. A nil eng starts on today's month.
func NewKalendarView(eng *engine.Engine, attrs config.Attrs) *KalendarView {
	if eng == nil {
		eng = engine.New(engine.RealClock{}, time.Sunday)
	}
	v := &KalendarView{
		engine: eng,
		lang:   config.DefaultLanguage,
		names:  EnglishNames(),
		log:    slog.With(config.LogKeyComponent, config.CompWidget),
	}
	v.attrs = v.sanitize(attrs)
	v.build()
	v.ExtendBaseWidget(v)
	v.applyWeekStart()
	v.refreshAll()
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *KalendarView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.content)
}

func (v *KalendarView) build() {
	v.title = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	v.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), v.Previous)
	v.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), v.Next)
	header := container.NewBorder(nil, nil, v.prev, v.next, v.title)

	weekdays := container.NewGridWithColumns(config.GridColumns)
	for i := range v.weekdays {
		l := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
		l.Importance = widget.LowImportance
		v.weekdays[i] = l
		weekdays.Add(l)
	}

	days := container.NewGridWithColumns(config.GridColumns)
	for i := range v.cells {
		c := newDayCell(v.tapDay, v.pressDay)
		v.cells[i] = c
		days.Add(c)
	}

	v.content = container.NewBorder(container.NewVBox(header, weekdays), nil, nil, nil, days)
}

func (v *KalendarView) sanitize(attrs config.Attrs) config.Attrs {
	clean, err := attrs.Sanitize()
	if err != nil {
		v.log.Warn(config.MsgAttrsReset, config.LogKeyError, err)
	}
	return clean
}

// applyWeekStart resolves the first weekday from the attributes, or from the
// language region when set to auto.
func (v *KalendarView) applyWeekStart() {
	day, auto, err := config.ParseWeekStart(v.attrs.WeekStart)
	if err != nil || auto {
		day = engine.FirstWeekdayForLang(v.lang)
	}
	v.engine.SetFirstWeekday(day)
}

// SetOnDayEvent registers the receiver of day clicks and long presses.
// Long presses are only reported while a handler is set. Taps toggle the
// mark when highlighting is allowed, with or without a handler.
func (v *KalendarView) SetOnDayEvent(h engine.DayEventHandler) {
	v.onDayEvent = h
}

// SetAttrs replaces the widget attributes and redraws.
func (v *KalendarView) SetAttrs(attrs config.Attrs) {
	v.attrs = v.sanitize(attrs)
	v.applyWeekStart()
	v.refreshAll()
}

// Attrs returns the attributes in use, after validation.
func (v *KalendarView) Attrs() config.Attrs {
	return v.attrs
}

// SetLocale changes the language used for names and for an automatic first
// weekday.
func (v *KalendarView) SetLocale(lang string, names Names) {
	v.lang = lang
	v.names = names
	v.applyWeekStart()
	v.refreshAll()
}

// SetEvents replaces the marked days. OnEventsChanged is not called.
func (v *KalendarView) SetEvents(events engine.EventSet) {
	v.engine.ReplaceEventSet(events)
	v.refreshGrid()
}

// Events returns the marked days.
func (v *KalendarView) Events() engine.EventSet {
	return v.engine.Events()
}

// Grid returns the grid currently displayed.
func (v *KalendarView) Grid() engine.Grid {
	return v.engine.Grid()
}

// Reference returns the displayed month.
func (v *KalendarView) Reference() engine.YearMonth {
	return v.engine.Reference()
}

// Next shows the following month.
func (v *KalendarView) Next() {
	v.advance(1)
}

// Previous shows the preceding month.
func (v *KalendarView) Previous() {
	v.advance(-1)
}

// ShowMonth displays ym.
func (v *KalendarView) ShowMonth(ym engine.YearMonth) {
	v.advance(v.engine.Reference().MonthsUntil(ym))
}

func (v *KalendarView) advance(delta int) {
	if delta == 0 {
		return
	}
	v.engine.AdvanceMonth(delta)
	v.refreshGrid()
	if v.OnMonthChanged != nil {
		v.OnMonthChanged(v.engine.Reference())
	}
}

// Title returns the formatted month title with localized month names.
func (v *KalendarView) Title() string {
	ref := v.engine.Reference()
	first := ref.First(v.engine.Today().Location())
	return localizeMonth(v.attrs.DateFormat, first, v.names)
}

// localizeMonth formats t with layout and swaps the English month name for
// the localized one. The layout element decides between full and short
// names, since both are the same for May.
func localizeMonth(layout string, t time.Time, names Names) string {
	s := t.Format(layout)
	m := t.Month()
	switch {
	case strings.Contains(layout, "January"):
		return strings.Replace(s, m.String(), names.Month(m), 1)
	case strings.Contains(layout, "Jan"):
		return strings.Replace(s, m.String()[:3], names.MonthShort(m), 1)
	default:
		return s
	}
}

func (v *KalendarView) tapDay(cell engine.DayCell) {
	v.log.Debug(config.MsgDayClicked, config.LogKeyDate, cell.Date.Format(config.DayLayout))
	v.emit(engine.DayEvent{Kind: engine.DayClicked, Date: cell.Date})

	if !v.attrs.AllowHighlight {
		return
	}
	v.engine.ToggleEvent(cell.Date)
	v.refreshGrid()
	if v.OnEventsChanged != nil {
		v.OnEventsChanged(v.engine.Events())
	}
}

func (v *KalendarView) pressDay(cell engine.DayCell) {
	if v.onDayEvent == nil {
		return
	}
	v.log.Debug(config.MsgDayLongPressed, config.LogKeyDate, cell.Date.Format(config.DayLayout))
	v.emit(engine.DayEvent{Kind: engine.DayLongPressed, Date: cell.Date})
}

func (v *KalendarView) emit(ev engine.DayEvent) {
	if v.onDayEvent != nil {
		v.onDayEvent(ev)
	}
}

func (v *KalendarView) refreshAll() {
	first := v.engine.State().FirstWeekday
	for i, l := range v.weekdays {
		l.SetText(v.names.WeekdayShort(time.Weekday((int(first) + i) % 7)))
	}
	v.refreshGrid()
}

func (v *KalendarView) refreshGrid() {
	grid := v.engine.Grid()
	for i := range grid {
		v.cells[i].SetCell(grid[i], v.attrs.HighlightStyle)
	}
	v.title.SetText(v.Title())
}
