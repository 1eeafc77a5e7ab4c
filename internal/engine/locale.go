package engine

import (
	"time"

	"golang.org/x/text/language"
)

// sundayFirstRegions lists regions whose calendars conventionally start the
// week on Sunday. Every other region starts on Monday.
var sundayFirstRegions = map[string]bool{
	"US": true, "CA": true, "MX": true, "BR": true, "JP": true, "KR": true,
	"TW": true, "HK": true, "IL": true, "PH": true, "ZA": true, "IN": true,
}

// FirstWeekdayFor returns the first day of the week for a language tag.
// A tag without region uses its most likely region ("en" → US).
func FirstWeekdayFor(tag language.Tag) time.Weekday {
	region, _ := tag.Region()
	if sundayFirstRegions[region.String()] {
		return time.Sunday
	}
	return time.Monday
}

// FirstWeekdayForLang parses a BCP 47 code and returns its first weekday.
// Unparseable codes fall back to Sunday.
func FirstWeekdayForLang(code string) time.Weekday {
	tag, err := language.Parse(code)
	if err != nil {
		return time.Sunday
	}
	return FirstWeekdayFor(tag)
}
