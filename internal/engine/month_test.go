package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-kalendar/internal/config"
	"github.com/tartampluch/go-kalendar/internal/engine"
)

func TestYearMonth_AddMonths(t *testing.T) {
	base := engine.YearMonth{Year: 2024, Month: time.December}
	tests := []struct {
		delta int
		want  engine.YearMonth
	}{
		{0, engine.YearMonth{Year: 2024, Month: time.December}},
		{1, engine.YearMonth{Year: 2025, Month: time.January}},
		{-1, engine.YearMonth{Year: 2024, Month: time.November}},
		{-12, engine.YearMonth{Year: 2023, Month: time.December}},
		{13, engine.YearMonth{Year: 2026, Month: time.January}},
		{-24, engine.YearMonth{Year: 2022, Month: time.December}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, base.AddMonths(tt.delta), "delta %d", tt.delta)
		assert.Equal(t, tt.delta, base.MonthsUntil(tt.want), "delta %d", tt.delta)
	}
}

func TestParseYearMonth(t *testing.T) {
	ym, err := engine.ParseYearMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, engine.YearMonth{Year: 2024, Month: time.March}, ym)
	assert.Equal(t, "2024-03", ym.String())

	_, err = engine.ParseYearMonth("March 2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrMonthParse)
}

func TestYearMonth_Contains(t *testing.T) {
	ym := engine.YearMonth{Year: 2024, Month: time.February}
	assert.True(t, ym.Contains(date(2024, time.February, 29)))
	assert.False(t, ym.Contains(date(2024, time.March, 1)))
	assert.False(t, ym.Contains(date(2023, time.February, 1)))
	assert.Equal(t, date(2024, time.February, 1), ym.First(time.UTC))
}

func TestFirstWeekdayForLang(t *testing.T) {
	assert.Equal(t, time.Sunday, engine.FirstWeekdayForLang("en"))
	assert.Equal(t, time.Sunday, engine.FirstWeekdayForLang("en-US"))
	assert.Equal(t, time.Monday, engine.FirstWeekdayForLang("en-GB"))
	assert.Equal(t, time.Monday, engine.FirstWeekdayForLang("fr"))
	assert.Equal(t, time.Sunday, engine.FirstWeekdayForLang("fr-CA"))
	assert.Equal(t, time.Sunday, engine.FirstWeekdayForLang("!!"))
}

func TestDayEventKind_String(t *testing.T) {
	assert.Equal(t, "clicked", engine.DayClicked.String())
	assert.Equal(t, "long_pressed", engine.DayLongPressed.String())
}
