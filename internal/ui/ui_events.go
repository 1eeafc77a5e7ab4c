package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

// formatDay renders a date with localized names, e.g. "Wednesday 20 March 2024".
func (app *GoKalendarApp) formatDay(d time.Time) string {
	names := app.Names()
	return fmt.Sprintf("%s %d %s %d", names.Weekday(d.Weekday()), d.Day(), names.Month(d.Month()), d.Year())
}

// sortEventDates orders dates by the given column. The weekday column follows
// the week order starting at first, with the date as secondary key.
func sortEventDates(dates []time.Time, col int, asc bool, first time.Weekday) {
	slices.SortStableFunc(dates, func(a, b time.Time) int {
		var c int
		if col == config.ColIDWeekday {
			c = weekPosition(a, first) - weekPosition(b, first)
		}
		if c == 0 {
			c = a.Compare(b)
		}
		if !asc {
			return -c
		}
		return c
	})
}

func weekPosition(t time.Time, first time.Weekday) int {
	return (int(t.Weekday()) - int(first) + 7) % 7
}

// ShowEventsWindow lists the marked days. Selecting a row shows its month in
// the calendar. If the window is already open, it requests focus.
func (app *GoKalendarApp) ShowEventsWindow() {
	if app.eventsWindow != nil {
		app.eventsWindow.RequestFocus()
		return
	}
	if app.Calendar == nil {
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinEvents))
	w.Resize(fyne.NewSize(config.EventsWinWidth, config.EventsWinHeight))
	app.eventsWindow = w

	dates := app.Calendar.Events().Dates()
	first := app.Engine.State().FirstWeekday

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(dates))

	currentSortCol := config.ColIDDate
	sortAsc := true

	performSort := func() {
		sortEventDates(dates, currentSortCol, sortAsc, first)
		slog.Debug(config.LogMsgSorted,
			config.LogKeyComponent, config.CompUI,
			config.LogKeySortCol, currentSortCol,
			config.LogKeySortAsc, sortAsc)
	}
	performSort()

	table := widget.NewTable(
		func() (int, int) {
			return len(dates), 2
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(dates) {
				return
			}
			d := dates[id.Row]
			switch id.Col {
			case config.ColIDWeekday:
				label.SetText(app.Names().Weekday(d.Weekday()))
			default:
				label.SetText(d.Format(config.DayLayout))
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}

	var refreshTable func()
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)

		titleKey := config.TKeyColDate
		if id.Col == config.ColIDWeekday {
			titleKey = config.TKeyColWeekday
		}
		text := app.GetMsg(titleKey)
		if id.Col == currentSortCol {
			if sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)

		btn.OnTapped = func() {
			if currentSortCol == id.Col {
				sortAsc = !sortAsc
			} else {
				currentSortCol = id.Col
				sortAsc = true
			}
			refreshTable()
		}
	}

	table.OnSelected = func(id widget.TableCellID) {
		if id.Row < 0 || id.Row >= len(dates) {
			return
		}
		app.Calendar.ShowMonth(engine.MonthOf(dates[id.Row]))
		if app.Window != nil {
			app.Window.Show()
		}
	}

	table.SetColumnWidth(config.ColIDDate, config.ColWidthDate)
	table.SetColumnWidth(config.ColIDWeekday, config.ColWidthWeekday)

	refreshTable = func() {
		performSort()
		table.Refresh()
	}

	var content fyne.CanvasObject = table
	if len(dates) == 0 {
		content = widget.NewLabelWithStyle(app.GetMsg(config.TKeyStatusNoEvents), fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	}
	w.SetContent(container.NewBorder(nil, nil, nil, nil, content))

	w.SetOnClosed(func() {
		app.eventsWindow = nil
	})

	w.Show()
}
