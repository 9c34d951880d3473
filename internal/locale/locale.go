// Package locale holds the display strings used by calendar views:
// weekday and month names, the overflow label and the hour formatter.
package locale

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale is immutable display configuration for a calendar view.
type Locale struct {
	ID  string
	Tag language.Tag

	// DaysShort is indexed by time.Weekday (Sunday first).
	DaysShort [7]string
	// MonthsLong is indexed by time.Month-1.
	MonthsLong [12]string
	// MoreText follows the "+N" overflow count, e.g. "+3 more".
	MoreText string
	// FormatTime renders a wall-clock time for hour labels. Nil selects a
	// 12-hour fallback.
	FormatTime func(time.Time) string
}

var English = &Locale{
	ID:        "en",
	Tag:       language.English,
	DaysShort: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	MonthsLong: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	MoreText: "more",
	FormatTime: func(t time.Time) string {
		return t.Format("03:04 PM")
	},
}

// French uses Google Calendar style short day names (no trailing periods).
var French = &Locale{
	ID:        "fr",
	Tag:       language.French,
	DaysShort: [7]string{"dim", "lun", "mar", "mer", "jeu", "ven", "sam"},
	MonthsLong: [12]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	},
	MoreText: "autres",
	FormatTime: func(t time.Time) string {
		return t.Format("15:04")
	},
}

var (
	builtins = []*Locale{English, French}
	matcher  = language.NewMatcher([]language.Tag{language.English, language.French})
)

// Default returns the locale used when none is configured.
func Default() *Locale { return English }

// Lookup resolves a BCP-47 style identifier ("fr", "fr-FR", "en_US") to a
// built-in locale. Unknown and empty identifiers resolve to English.
func Lookup(id string) *Locale {
	id = strings.ReplaceAll(strings.TrimSpace(id), "_", "-")
	if id == "" {
		return English
	}
	tag, err := language.Parse(id)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return builtins[idx]
}

// DayName returns the short weekday label.
func (l *Locale) DayName(d time.Weekday) string {
	return l.DaysShort[d]
}

// MonthName returns the long month label.
func (l *Locale) MonthName(m time.Month) string {
	return l.MonthsLong[m-1]
}

// MonthTitle renders a month header such as "Février 2025".
func (l *Locale) MonthTitle(year int, month time.Month) string {
	name := cases.Title(l.Tag).String(l.MonthName(month))
	return name + " " + strconv.Itoa(year)
}

// MoreLabel renders the overflow affordance, e.g. "+3 more".
func (l *Locale) MoreLabel(n int) string {
	return "+" + strconv.Itoa(n) + " " + l.MoreText
}

// FormatHour renders the label for an hour row of the week grid.
func (l *Locale) FormatHour(hour int) string {
	if l.FormatTime != nil {
		return l.FormatTime(time.Date(2000, time.January, 1, hour, 0, 0, 0, time.UTC))
	}
	h := hour
	switch {
	case h == 0:
		h = 12
	case h > 12:
		h -= 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return strconv.Itoa(h) + ":00 " + suffix
}
