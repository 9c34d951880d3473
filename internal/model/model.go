package model

import "time"

// Event is a single timed calendar entry supplied by the caller (or read
// from an ICS feed). Events are treated as immutable values: nothing in the
// grid or view layers modifies one after construction.
type Event struct {
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
	Color string    `json:"color"`

	// Strikethrough marks a cancelled event.
	Strikethrough bool `json:"strikethrough,omitempty"`

	// Style is an optional bag of display attributes passed through to the
	// presentation layer untouched (e.g. "category", "background").
	Style map[string]string `json:"style,omitempty"`

	// SourceID / UID identify where a feed event came from. Both are empty
	// for events constructed directly by the caller.
	SourceID string `json:"source_id,omitempty"`
	UID      string `json:"uid,omitempty"`
}

// DayCell is one cell of the 6x7 month grid.
type DayCell struct {
	Day          int        `json:"day"`
	Month        time.Month `json:"month"`
	Year         int        `json:"year"`
	CurrentMonth bool       `json:"current_month"`

	// Date is local midnight of the cell's day.
	Date time.Time `json:"date"`
}

// TimeSlot is one (day, hour) cell of the week grid. Start/End bound exactly
// one hour.
type TimeSlot struct {
	Hour   int       `json:"hour"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Events []Event   `json:"events"`
}
