package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

// dayCell draws one day of the grid. A tap reports a click, a secondary tap
// (right click, or long press on mobile) reports a long press.
type dayCell struct {
	widget.BaseWidget

	cell      engine.DayCell
	highlight string

	onTap       func(engine.DayCell)
	onSecondary func(engine.DayCell)
}

var (
	_ fyne.Tappable          = (*dayCell)(nil)
	_ fyne.SecondaryTappable = (*dayCell)(nil)
)

func newDayCell(onTap, onSecondary func(engine.DayCell)) *dayCell {
	c := &dayCell{
		highlight:   config.DefaultHighlight,
		onTap:       onTap,
		onSecondary: onSecondary,
	}
	c.ExtendBaseWidget(c)
	return c
}

// SetCell updates the displayed day.
func (c *dayCell) SetCell(cell engine.DayCell, highlight string) {
	c.cell = cell
	c.highlight = highlight
	c.Refresh()
}

func (c *dayCell) Tapped(*fyne.PointEvent) {
	if c.onTap != nil {
		c.onTap(c.cell)
	}
}

func (c *dayCell) TappedSecondary(*fyne.PointEvent) {
	if c.onSecondary != nil {
		c.onSecondary(c.cell)
	}
}

func (c *dayCell) CreateRenderer() fyne.WidgetRenderer {
	r := &dayCellRenderer{
		cell:   c,
		circle: canvas.NewCircle(color.Transparent),
		square: canvas.NewRectangle(color.Transparent),
		text:   canvas.NewText("", theme.Color(theme.ColorNameForeground)),
	}
	r.text.Alignment = fyne.TextAlignCenter
	r.objects = []fyne.CanvasObject{r.circle, r.square, r.text}
	r.Refresh()
	return r
}

type dayCellRenderer struct {
	cell    *dayCell
	circle  *canvas.Circle
	square  *canvas.Rectangle
	text    *canvas.Text
	objects []fyne.CanvasObject
}

func (r *dayCellRenderer) Layout(size fyne.Size) {
	side := fyne.Max(fyne.Min(size.Width, size.Height)-2*config.HighlightInset, 0)
	pos := fyne.NewPos((size.Width-side)/2, (size.Height-side)/2)
	r.circle.Resize(fyne.NewSquareSize(side))
	r.circle.Move(pos)
	r.square.Resize(fyne.NewSquareSize(side))
	r.square.Move(pos)

	textHeight := r.text.MinSize().Height
	r.text.Resize(fyne.NewSize(size.Width, textHeight))
	r.text.Move(fyne.NewPos(0, (size.Height-textHeight)/2))
}

func (r *dayCellRenderer) MinSize() fyne.Size {
	return fyne.NewSquareSize(config.DayCellMinSize)
}

// Refresh applies the cell style: a marked day sits on the highlight shape,
// past and outside days are dimmed, today is bold in the primary colour.
func (r *dayCellRenderer) Refresh() {
	cell := r.cell.cell
	primary := theme.Color(theme.ColorNamePrimary)

	r.text.Text = ""
	if !cell.Date.IsZero() {
		r.text.Text = strconv.Itoa(cell.Date.Day())
	}
	r.text.TextStyle = fyne.TextStyle{}
	r.circle.Hide()
	r.square.Hide()

	switch cell.Style() {
	case engine.StyleEvent:
		r.text.Color = color.White
		r.showHighlight(primary)
	case engine.StylePast, engine.StyleOutside:
		r.text.Color = theme.Color(theme.ColorNameDisabled)
	case engine.StyleToday:
		r.text.Color = primary
		r.text.TextStyle.Bold = true
	default:
		r.text.Color = theme.Color(theme.ColorNameForeground)
	}

	r.Layout(r.cell.Size())
	canvas.Refresh(r.cell)
}

func (r *dayCellRenderer) showHighlight(primary color.Color) {
	switch r.cell.highlight {
	case config.HighlightSquare:
		r.square.FillColor = primary
		r.square.StrokeWidth = 0
		r.square.CornerRadius = config.HighlightCorner
		r.square.Show()
	case config.HighlightBorder:
		r.square.FillColor = color.Transparent
		r.square.StrokeColor = primary
		r.square.StrokeWidth = config.HighlightStroke
		r.square.CornerRadius = config.HighlightCorner
		r.square.Show()
		r.text.Color = primary
	default:
		r.circle.FillColor = primary
		r.circle.Show()
	}
}

func (r *dayCellRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *dayCellRenderer) Destroy() {}
