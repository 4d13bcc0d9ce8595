package mapping

import (
	"strings"
	"time"
)

// dateTimeLayouts carry both a date and a time of day.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04PM",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
}

var timeLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
	"3:04pm",
	"15:04",
	"15:04:05",
	"3 PM",
	"3PM",
	"3pm",
}

// ScheduledAt combines an export's date and optional time-of-day columns into
// an instant in loc. It reports false when the date cannot be parsed. An
// arrival window such as "9:00 AM - 11:00 AM" uses its start; an unparseable
// time falls back to midnight.
func ScheduledAt(date, tod string, loc *time.Location) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}

	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, true
		}
	}

	var day time.Time

	parsed := false

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			day, parsed = t, true

			break
		}
	}

	if !parsed {
		return time.Time{}, false
	}

	if start, _, found := strings.Cut(tod, "-"); found {
		tod = start
	}

	tod = strings.TrimSpace(tod)

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, tod); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
		}
	}

	return day, true
}
