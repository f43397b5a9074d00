package fill

import (
	"regexp"
	"time"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateLayouts are tried in order when normalizing a value for a date
// input. US-style month-first layouts come before day-first ones.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"01.02.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeDate converts a parseable calendar date to the canonical
// YYYY-MM-DD form that date inputs require. Values already in that form,
// and values no layout can parse, pass through unchanged.
func NormalizeDate(value string) string {
	if isoDate.MatchString(value) {
		return value
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}
