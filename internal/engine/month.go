package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-kalendar/internal/config"
)

// YearMonth identifies a calendar month. It carries no day of month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t, read in t's location.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses the "2006-01" form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(config.MonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%s: %w", config.ErrMonthParse, err)
	}
	return MonthOf(t), nil
}

// AddMonths returns the month delta months away. Any delta is accepted and
// years roll over (December + 1 is January of the next year).
func (ym YearMonth) AddMonths(delta int) YearMonth {
	// Anchored on the 1st, so time.Date never overflows into another month.
	return MonthOf(time.Date(ym.Year, ym.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC))
}

// MonthsUntil returns the number of months to add to ym to reach other.
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	return (other.Year-ym.Year)*12 + int(other.Month) - int(ym.Month)
}

// First returns midnight of the first day of the month in loc.
func (ym YearMonth) First(loc *time.Location) time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
}

// Contains reports whether t, read in its own location, falls in the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// String returns the "2006-01" form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
