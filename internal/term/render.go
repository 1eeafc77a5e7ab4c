// Package term prints a calendar grid as text, for terminals and pipes.
package term

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

// cellWidth fits two digits and a separating space.
const cellWidth = 3

// Options controls Render.
type Options struct {
	// Weekdays are the column headers in grid order. The header row is
	// omitted when the first one is empty.
	Weekdays [config.GridColumns]string
}

// IsTerminal reports whether w writes to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cells  map[engine.CellStyle]lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Width(cellWidth).Align(lipgloss.Right)
	s := styles{
		title:  r.NewStyle().Width(cellWidth * config.GridColumns).Align(lipgloss.Center),
		header: cell,
		cells: map[engine.CellStyle]lipgloss.Style{
			engine.StyleNormal:  cell,
			engine.StyleEvent:   cell,
			engine.StylePast:    cell,
			engine.StyleOutside: cell,
			engine.StyleToday:   cell,
		},
	}
	if !color {
		return s
	}

	s.title = s.title.Bold(true)
	s.header = s.header.Faint(true)
	s.cells[engine.StyleEvent] = cell.Reverse(true)
	s.cells[engine.StylePast] = cell.Foreground(lipgloss.Color("8"))
	s.cells[engine.StyleOutside] = cell.Foreground(lipgloss.Color("8"))
	s.cells[engine.StyleToday] = cell.Bold(true).Foreground(lipgloss.Color("4"))
	return s
}

// Render writes the title, an optional weekday header and six rows of seven
// right-aligned day numbers. Styles are applied only when w is a terminal.
func Render(w io.Writer, grid engine.Grid, title string, opts Options) error {
	st := newStyles(w, IsTerminal(w))

	var b strings.Builder
	b.WriteString(st.title.Render(title))
	b.WriteByte('\n')

	if opts.Weekdays[0] != "" {
		for _, name := range opts.Weekdays {
			b.WriteString(st.header.Render(name))
		}
		b.WriteByte('\n')
	}

	for i, c := range grid {
		b.WriteString(st.cells[c.Style()].Render(strconv.Itoa(c.Date.Day())))
		if (i+1)%config.GridColumns == 0 {
			b.WriteByte('\n')
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTermWrite, err)
	}
	return nil
}
