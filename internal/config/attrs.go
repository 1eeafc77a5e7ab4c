package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Attrs holds the calendar widget attributes. They are supplied once when the
// widget is built and can be read from a YAML file:
//
//	date_format: "January 2006"
//	allow_highlight: true
//	highlight_style: circle
//	week_start: monday
type Attrs struct {
	// DateFormat is the Go time layout of the month title.
	DateFormat string `yaml:"date_format"`
	// AllowHighlight lets a tap on a day toggle its event mark.
	AllowHighlight bool `yaml:"allow_highlight"`
	// HighlightStyle selects the shape drawn behind a marked day.
	HighlightStyle string `yaml:"highlight_style"`
	// WeekStart is a weekday name or "auto" to follow the UI language region.
	WeekStart string `yaml:"week_start"`
}

// DefaultAttrs returns the attributes used when nothing is configured.
func DefaultAttrs() Attrs {
	return Attrs{
		DateFormat:     DefaultDateFormat,
		AllowHighlight: false,
		HighlightStyle: DefaultHighlight,
		WeekStart:      WeekStartAuto,
	}
}

// LoadAttrs reads attributes from a YAML file. Missing keys keep their
// default. An empty path returns the defaults.
//
// Invalid values are replaced by their default and reported in the returned
// error, so the result is always usable even when err != nil.
func LoadAttrs(path string) (Attrs, error) {
	attrs := DefaultAttrs()
	if path == "" {
		return attrs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return attrs, fmt.Errorf("%s: %w", ErrAttrsRead, err)
	}
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return DefaultAttrs(), fmt.Errorf("%s: %w", ErrAttrsParse, err)
	}
	return attrs.Sanitize()
}

// Sanitize replaces every invalid attribute by its default. The returned
// error joins one error per replaced attribute.
func (a Attrs) Sanitize() (Attrs, error) {
	def := DefaultAttrs()
	var errs []error

	if err := ValidateTitleFormat(a.DateFormat); err != nil {
		errs = append(errs, err)
		a.DateFormat = def.DateFormat
	}

	style, err := ParseHighlightStyle(a.HighlightStyle)
	if err != nil {
		errs = append(errs, err)
		style = def.HighlightStyle
	}
	a.HighlightStyle = style

	if _, _, err := ParseWeekStart(a.WeekStart); err != nil {
		errs = append(errs, err)
		a.WeekStart = def.WeekStart
	} else if a.WeekStart == "" {
		a.WeekStart = def.WeekStart
	} else {
		a.WeekStart = strings.ToLower(strings.TrimSpace(a.WeekStart))
	}

	return a, errors.Join(errs...)
}

// formatProbe has a distinct value in every field so any layout element
// changes the formatted output.
var formatProbe = time.Date(2001, time.February, 3, 16, 5, 6, 0, time.UTC)

// ValidateTitleFormat checks that layout is a usable Go time layout: it must
// be non-empty and contain at least one date element.
func ValidateTitleFormat(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return errors.New(ErrDateFormatEmpty)
	}
	if formatProbe.Format(layout) == layout {
		return fmt.Errorf("%s: %q", ErrDateFormatTokens, layout)
	}
	return nil
}

// ParseHighlightStyle normalizes a highlight style name. Empty selects the default.
func ParseHighlightStyle(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultHighlight, nil
	}
	if !slices.Contains(HighlightStyles, s) {
		return "", fmt.Errorf("%s: %q", ErrHighlightStyle, s)
	}
	return s, nil
}

// ParseWeekStart resolves a first-weekday setting. auto is true for "" and
// "auto", in which case the caller picks the weekday from the locale.
func ParseWeekStart(s string) (day time.Weekday, auto bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == WeekStartAuto {
		return time.Sunday, true, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == s {
			return d, false, nil
		}
	}
	return time.Sunday, false, fmt.Errorf("%s: %q", ErrWeekStart, s)
}
