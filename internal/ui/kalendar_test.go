package ui

import (
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

func newTestView(t *testing.T, attrs config.Attrs) *KalendarView {
	t.Helper()
	test.NewTempApp(t)
	return NewKalendarView(engine.New(MockClock{CurrentTime: testToday}, time.Sunday), attrs)
}

func cellAt(t *testing.T, v *KalendarView, d time.Time) *dayCell {
	t.Helper()
	i, ok := v.Grid().Index(d)
	require.True(t, ok, "%s not in grid", d)
	return v.cells[i]
}

func TestKalendarView_InitialGrid(t *testing.T) {
	attrs := config.DefaultAttrs()
	attrs.WeekStart = "sunday"
	v := newTestView(t, attrs)

	assert.Equal(t, "Mar 2024", v.Title())
	assert.Equal(t, day(2024, time.February, 25), v.Grid().Start())
	assert.Equal(t, "Su", v.weekdays[0].Text)
	assert.Equal(t, "Sa", v.weekdays[6].Text)
	for i, c := range v.Grid() {
		assert.Equal(t, c, v.cells[i].cell)
	}
}

func TestKalendarView_TapWithoutHighlight(t *testing.T) {
	v := newTestView(t, config.DefaultAttrs())

	var got []engine.DayEvent
	v.SetOnDayEvent(func(ev engine.DayEvent) { got = append(got, ev) })
	changed := false
	v.OnEventsChanged = func(engine.EventSet) { changed = true }

	test.Tap(cellAt(t, v, day(2024, time.March, 20)))

	require.Len(t, got, 1)
	assert.Equal(t, engine.DayClicked, got[0].Kind)
	assert.Equal(t, day(2024, time.March, 20), got[0].Date)
	assert.Equal(t, 0, v.Events().Len(), "taps do not mark days while highlighting is off")
	assert.False(t, changed)
}

func TestKalendarView_TapTogglesWhenAllowed(t *testing.T) {
	attrs := config.DefaultAttrs()
	attrs.AllowHighlight = true
	// No day event handler is set: the tap still toggles.
	v := newTestView(t, attrs)

	var published []int
	v.OnEventsChanged = func(s engine.EventSet) { published = append(published, s.Len()) }

	target := day(2024, time.March, 20)
	test.Tap(cellAt(t, v, target))
	assert.True(t, v.Events().Contains(target))
	assert.True(t, cellAt(t, v, target).cell.HasEvent)

	test.Tap(cellAt(t, v, target))
	assert.Equal(t, 0, v.Events().Len())
	assert.Equal(t, []int{1, 0}, published)
}

func TestKalendarView_SecondaryTap(t *testing.T) {
	v := newTestView(t, config.DefaultAttrs())
	cell := cellAt(t, v, day(2024, time.March, 12))

	// Without a handler the long press is ignored.
	test.TapSecondary(cell)

	var got []engine.DayEvent
	v.SetOnDayEvent(func(ev engine.DayEvent) { got = append(got, ev) })
	test.TapSecondary(cell)

	require.Len(t, got, 1)
	assert.Equal(t, engine.DayLongPressed, got[0].Kind)
	assert.Equal(t, day(2024, time.March, 12), got[0].Date)
}

func TestKalendarView_Navigation(t *testing.T) {
	v := newTestView(t, config.DefaultAttrs())

	var months []engine.YearMonth
	v.OnMonthChanged = func(ym engine.YearMonth) { months = append(months, ym) }

	test.Tap(v.next)
	assert.Equal(t, "Apr 2024", v.Title())
	assert.Equal(t, "Apr 2024", v.title.Text)

	v.Previous()
	v.Previous()
	assert.Equal(t, "Feb 2024", v.Title())

	v.ShowMonth(engine.YearMonth{Year: 2025, Month: time.January})
	assert.Equal(t, "Jan 2025", v.Title())

	v.ShowMonth(engine.YearMonth{Year: 2025, Month: time.January})
	assert.Len(t, months, 4, "showing the current month again is a no-op")
}

func TestKalendarView_InvalidFormatFallsBack(t *testing.T) {
	attrs := config.DefaultAttrs()
	attrs.DateFormat = "MMM yyyy"
	v := newTestView(t, attrs)

	assert.Equal(t, config.DefaultDateFormat, v.Attrs().DateFormat)
	assert.Equal(t, "Mar 2024", v.Title())
}

func TestKalendarView_SetAttrs(t *testing.T) {
	v := newTestView(t, config.DefaultAttrs())

	attrs := config.DefaultAttrs()
	attrs.DateFormat = "January 2006"
	attrs.WeekStart = "monday"
	v.SetAttrs(attrs)

	assert.Equal(t, "March 2024", v.title.Text)
	assert.Equal(t, time.Monday, v.Grid().Start().Weekday())
	assert.Equal(t, "Mo", v.weekdays[0].Text)
}

func TestKalendarView_SetEvents(t *testing.T) {
	v := newTestView(t, config.DefaultAttrs())
	changed := false
	v.OnEventsChanged = func(engine.EventSet) { changed = true }

	v.SetEvents(engine.NewEventSet(day(2024, time.March, 20)))

	assert.True(t, cellAt(t, v, day(2024, time.March, 20)).cell.HasEvent)
	assert.False(t, changed, "programmatic replacement is not reported")
}

func TestDayCell_Rendering(t *testing.T) {
	attrs := config.DefaultAttrs()
	attrs.WeekStart = "sunday"
	v := newTestView(t, attrs)
	v.SetEvents(engine.NewEventSet(day(2024, time.March, 20)))

	event := test.WidgetRenderer(cellAt(t, v, day(2024, time.March, 20))).(*dayCellRenderer)
	assert.Equal(t, "20", event.text.Text)
	assert.True(t, event.circle.Visible())
	assert.False(t, event.square.Visible())
	assert.Equal(t, color.White, event.text.Color)

	today := test.WidgetRenderer(cellAt(t, v, day(2024, time.March, 10))).(*dayCellRenderer)
	assert.True(t, today.text.TextStyle.Bold)
	assert.False(t, today.circle.Visible())

	past := test.WidgetRenderer(cellAt(t, v, day(2024, time.March, 9))).(*dayCellRenderer)
	assert.False(t, past.text.TextStyle.Bold)
	assert.NotEqual(t, today.text.Color, past.text.Color)

	attrs.HighlightStyle = config.HighlightBorder
	v.SetAttrs(attrs)
	event = test.WidgetRenderer(cellAt(t, v, day(2024, time.March, 20))).(*dayCellRenderer)
	assert.True(t, event.square.Visible())
	assert.False(t, event.circle.Visible())
	assert.Equal(t, float32(config.HighlightStroke), event.square.StrokeWidth)
}

func TestLocalizeMonth(t *testing.T) {
	names := EnglishNames()
	names.Month = func(m time.Month) string { return "full-" + m.String() }
	names.MonthShort = func(m time.Month) string { return "short-" + m.String()[:3] }

	march := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		layout string
		t      time.Time
		want   string
	}{
		{"Full", "January 2006", march, "full-March 2024"},
		{"Short", "Jan 2006", march, "short-Mar 2024"},
		{"Numeric", "01/2006", march, "03/2024"},
		{"MayFull", "January 2006", may, "full-May 2024"},
		{"MayShort", "Jan 2006", may, "short-May 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, localizeMonth(tt.layout, tt.t, names))
		})
	}
}
