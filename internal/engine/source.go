package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-kalendar/internal/config"
)

// SourceConfig tells a Loader where to read marked dates from.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to an .ics or .vcf file
	WebURL    string // iCalendar feed or vCard URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// sourceFormat is the detected document type of an event source.
type sourceFormat int

const (
	formatUnknown sourceFormat = iota
	formatICal
	formatVCard
)

// Loader reads an event source into an EventSet. The load is read-only:
// nothing is ever written back to the source.
type Loader struct {
	Fetcher Fetcher
	// Location is the zone in which dates are truncated to midnight.
	// Nil means time.Local.
	Location *time.Location
}

// Load opens the configured source and decodes every date it holds.
// iCalendar sources contribute the start day of each VEVENT; vCard sources
// contribute BDAY and ANNIVERSARY values that carry a year. Entries that
// cannot be decoded are skipped.
func (l *Loader) Load(ctx context.Context, cfg SourceConfig) (EventSet, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompSource,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgLoadStarted)

	reader, err := l.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return EventSet{}, ctx.Err()
		}
		return EventSet{}, fmt.Errorf("%s: %w", config.ErrSourceRead, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return EventSet{}, err
	}

	br := bufio.NewReaderSize(reader, config.SniffSize)
	var (
		dates []time.Time
		stats loadStats
	)
	format := sniffFormat(br)
	switch format {
	case formatICal:
		dates, stats, err = l.decodeICal(ctx, br)
	case formatVCard:
		dates, stats, err = l.decodeVCard(ctx, br)
	default:
		err = errors.New(config.ErrSourceFormat)
	}
	if err != nil {
		return EventSet{}, err
	}

	events := NewEventSet(dates...)
	log.Info(config.MsgLoadSuccess,
		config.LogKeyFormat, format.String(),
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, events.Len()),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return events, nil
}

func (f sourceFormat) String() string {
	switch f {
	case formatICal:
		return "ical"
	case formatVCard:
		return "vcard"
	default:
		return "unknown"
	}
}

type loadStats struct {
	processed int
}

// acquireStream opens the appropriate data source based on configuration.
func (l *Loader) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

func (l *Loader) location() *time.Location {
	if l.Location == nil {
		return time.Local
	}
	return l.Location
}

// sniffFormat detects the document type from the first bytes and discards
// any leading byte order mark and blank lines so decoders start on the marker.
func sniffFormat(br *bufio.Reader) sourceFormat {
	head, _ := br.Peek(config.SniffSize)
	text := strings.TrimLeft(string(head), "\ufeff \t\r\n")
	upper := strings.ToUpper(text)

	format := formatUnknown
	switch {
	case strings.HasPrefix(upper, config.MarkerVCalendar):
		format = formatICal
	case strings.HasPrefix(upper, config.MarkerVCard):
		format = formatVCard
	}
	if format != formatUnknown {
		_, _ = br.Discard(len(head) - len(text))
	}
	return format
}

// decodeICal collects the start day of every VEVENT of every calendar in r.
func (l *Loader) decodeICal(ctx context.Context, r io.Reader) ([]time.Time, loadStats, error) {
	loc := l.location()
	dec := ical.NewDecoder(r)
	var (
		dates []time.Time
		stats loadStats
	)
	for {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", config.ErrICalDecode, err)
		}

		for _, ev := range cal.Events() {
			stats.processed++
			start, err := ev.DateTimeStart(loc)
			if err != nil || start.IsZero() {
				slog.Debug(config.MsgSkippedEvent,
					config.LogKeyComponent, config.CompSource,
					config.LogKeyError, err)
				continue
			}
			dates = append(dates, DayStart(start.In(loc)))
		}
	}
	return dates, stats, nil
}

// decodeVCard collects dated fields of every card in r.
func (l *Loader) decodeVCard(ctx context.Context, r io.Reader) ([]time.Time, loadStats, error) {
	loc := l.location()
	dec := vcard.NewDecoder(r)
	var (
		dates []time.Time
		stats loadStats
	)
	for {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyError, err)
			continue
		}
		stats.processed++

		for _, field := range []string{config.VCardBDAY, config.VCardAnniversary} {
			f := card.Get(field)
			if f == nil || f.Value == "" {
				continue
			}
			d, err := parseDate(f.Value, loc)
			if err != nil {
				slog.Debug(config.MsgSkippedDate,
					config.LogKeyComponent, config.CompSource,
					config.LogKeyValue, f.Value)
				continue
			}
			dates = append(dates, d)
		}
	}
	return dates, stats, nil
}

// parseDate reads a vCard date that includes a year and returns midnight of
// that day in loc. Year-less forms such as --01-02 are rejected.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	layouts := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
