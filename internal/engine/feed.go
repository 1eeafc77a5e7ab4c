package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-kalendar/internal/config"
)

// ExportICS encodes the marked days as an iCalendar document with one all-day
// VEVENT per distinct calendar day. UIDs are derived from the date so they stay
// stable across exports. now is used for DTSTAMP.
//
// An empty set yields a minimal valid VCALENDAR.
func ExportICS(events EventSet, now time.Time) ([]byte, error) {
	days := distinctDays(events.Dates())
	if len(days) == 0 {
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, day := range days {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, dayUID(day))
		event.Props.SetText(config.PropSummary, config.ICalEventSummary)
		event.Props.Set(dtStampProp)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(day)
		event.Props.Set(dtStartProp)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMarked, len(days),
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// distinctDays collapses sorted instants to one midnight per calendar day.
func distinctDays(sorted []time.Time) []time.Time {
	var days []time.Time
	for _, t := range sorted {
		d := DayStart(t)
		if n := len(days); n > 0 && SameCalendarDay(days[n-1], d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// dayUID hashes the calendar date so the same day always gets the same UID.
func dayUID(day time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, config.UIDSalt, day.Format(config.DayLayout))
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}
