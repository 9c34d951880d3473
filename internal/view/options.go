// Package view turns grids into presentation-ready layouts and owns the
// small amount of interaction state a calendar needs: the selected day and
// the rules for which days and slots accept clicks.
package view

import (
	"time"

	"gridcal/internal/dateutil"
	"gridcal/internal/grid"
	"gridcal/internal/locale"
	"gridcal/internal/model"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	DefaultMaxEventsPerDay = 5
	// DefaultScrollHour is the row a week view scrolls to initially.
	DefaultScrollHour = 9
	// DefaultEventColor is used for an event dot when the event has no color.
	DefaultEventColor = "#bfbfbf"
)

// Options configures a month or week view. The zero value is usable; see
// normalize for the defaults.
type Options struct {
	Locale               *locale.Locale
	Theme                Theme
	MaxEventsPerDay      int
	DaySelector          bool
	AllowPastInteraction bool
	Ellipsis             bool
	Header               bool
	Hours                grid.HourRange
	Location             *time.Location

	// Now is the clock used for today/past classification.
	Now func() time.Time
}

// Callbacks are invoked on user interaction. Any of them may be nil.
type Callbacks struct {
	OnDayClick        func(date time.Time)
	OnEventClick      func(ev model.Event)
	OnMoreEventsClick func(date time.Time, events []model.Event)
	OnSelectSlot      func(start, end time.Time)
}

func (o Options) normalize() Options {
	if o.Locale == nil {
		o.Locale = locale.Default()
	}
	if o.Theme != ThemeDark {
		o.Theme = ThemeLight
	}
	if o.MaxEventsPerDay <= 0 {
		o.MaxEventsPerDay = DefaultMaxEventsPerDay
	}
	if o.Hours == (grid.HourRange{}) {
		o.Hours = grid.FullDay
	}
	o.Hours = o.Hours.Normalize()
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// EventChip is one event as drawn inside a day cell or time slot.
type EventChip struct {
	model.Event
	Future    bool   `json:"future"`
	Cancelled bool   `json:"cancelled"`
	DotColor  string `json:"dot_color"`
	Ellipsis  bool   `json:"ellipsis,omitempty"`
}

// newChip classifies ev in loc, the zone its day bucket was computed in.
func newChip(ev model.Event, now time.Time, loc *time.Location, ellipsis bool) EventChip {
	color := ev.Color
	if color == "" {
		color = DefaultEventColor
	}
	return EventChip{
		Event:     ev,
		Future:    dateutil.IsFutureDateAt(ev.Date.In(loc), now),
		Cancelled: ev.Strikethrough,
		DotColor:  color,
		Ellipsis:  ellipsis,
	}
}

// interactive applies the single rule shared by both views: a day accepts
// clicks unless it is strictly before today and past interaction is off.
func interactive(day, now time.Time, allowPast bool) bool {
	return allowPast || !dateutil.IsPastDateAt(day, now)
}
