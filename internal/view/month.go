package view

import (
	"sync"
	"time"

	"gridcal/internal/dateutil"
	"gridcal/internal/grid"
	"gridcal/internal/model"
)

// MonthCell is one of the 42 cells of a rendered month.
type MonthCell struct {
	model.DayCell
	Today       bool `json:"today"`
	Past        bool `json:"past"`
	Interactive bool `json:"interactive"`
	Selected    bool `json:"selected"`

	// Events are the chips shown in the cell; when the day overflows this
	// is MaxEventsPerDay-1 chips followed by MoreLabel.
	Events      []EventChip   `json:"events"`
	AllEvents   []model.Event `json:"-"`
	HiddenCount int           `json:"hidden_count,omitempty"`
	MoreLabel   string        `json:"more_label,omitempty"`
}

// MonthLayout is the complete, render-ready month view.
type MonthLayout struct {
	Year     int         `json:"year"`
	Month    time.Month  `json:"month"`
	Title    string      `json:"title,omitempty"`
	Weekdays []string    `json:"weekdays"`
	Cells    []MonthCell `json:"cells"`
	Theme    Theme       `json:"theme"`
	Selected *time.Time  `json:"selected,omitempty"`
}

// MonthView computes month layouts and tracks the selected day. It is safe
// for concurrent use.
type MonthView struct {
	opts Options
	cb   Callbacks

	mu       sync.Mutex
	selected time.Time
}

// NewMonthView returns a MonthView whose selection starts on today.
func NewMonthView(opts Options, cb Callbacks) *MonthView {
	opts = opts.normalize()
	return &MonthView{
		opts:     opts,
		cb:       cb,
		selected: dateutil.StartOfDay(opts.Now().In(opts.Location)),
	}
}

// Options returns the normalized options of the view.
func (v *MonthView) Options() Options { return v.opts }

// Layout builds the month containing date with events bucketed per cell.
// Nothing is cached between calls.
func (v *MonthView) Layout(date time.Time, events []model.Event) MonthLayout {
	date = date.In(v.opts.Location)
	now := v.opts.Now().In(v.opts.Location)
	selected, hasSelection := v.Selected()

	out := MonthLayout{
		Year:     date.Year(),
		Month:    date.Month(),
		Weekdays: make([]string, 0, 7),
		Cells:    make([]MonthCell, 0, grid.MonthCells),
		Theme:    v.opts.Theme,
	}
	if v.opts.Header {
		out.Title = v.opts.Locale.MonthTitle(date.Year(), date.Month())
	}
	if hasSelection {
		out.Selected = &selected
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		out.Weekdays = append(out.Weekdays, v.opts.Locale.DayName(d))
	}

	for _, day := range grid.BuildMonth(date.Year(), date.Month(), v.opts.Location, events) {
		out.Cells = append(out.Cells, v.cell(day, now, selected, hasSelection))
	}
	return out
}

func (v *MonthView) cell(day grid.MonthDay, now, selected time.Time, hasSelection bool) MonthCell {
	c := MonthCell{
		DayCell:     day.Cell,
		Today:       dateutil.IsTodayAt(day.Cell.Date, now),
		Past:        dateutil.IsPastDateAt(day.Cell.Date, now),
		Interactive: interactive(day.Cell.Date, now, v.opts.AllowPastInteraction),
		Selected:    hasSelection && dateutil.IsSameDay(day.Cell.Date, selected),
		AllEvents:   day.Events,
	}

	visible, hidden := VisibleCount(len(day.Events), v.opts.MaxEventsPerDay)
	c.Events = make([]EventChip, 0, visible)
	for _, ev := range day.Events[:visible] {
		c.Events = append(c.Events, newChip(ev, now, v.opts.Location, v.opts.Ellipsis))
	}
	if hidden > 0 {
		c.HiddenCount = hidden
		c.MoreLabel = v.opts.Locale.MoreLabel(hidden)
	}
	return c
}

// VisibleCount returns how many of total events a day cell shows and how
// many the overflow label reports. When total exceeds limit, one chip is
// given up for the label, so a 7-event day with limit 5 shows 4 and "+3".
func VisibleCount(total, limit int) (visible, hidden int) {
	if limit <= 0 {
		limit = DefaultMaxEventsPerDay
	}
	if total <= limit {
		return total, 0
	}
	visible = limit - 1
	return visible, total - visible
}

// Selected returns the selected day. ok is false when the day selector is
// disabled.
func (v *MonthView) Selected() (day time.Time, ok bool) {
	if !v.opts.DaySelector {
		return time.Time{}, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected, true
}

// ClickDay handles a click on a day cell. It returns false when the click
// is ignored because the day is in the past. Selection is updated before
// OnDayClick runs so the callback observes the new state.
func (v *MonthView) ClickDay(date time.Time) bool {
	date = date.In(v.opts.Location)
	now := v.opts.Now().In(v.opts.Location)
	if !interactive(date, now, v.opts.AllowPastInteraction) {
		return false
	}
	if v.opts.DaySelector {
		v.mu.Lock()
		v.selected = dateutil.StartOfDay(date)
		v.mu.Unlock()
	}
	if v.cb.OnDayClick != nil {
		v.cb.OnDayClick(date)
	}
	return true
}

// ClickEvent handles a click on an event chip. The containing day's handler
// is never invoked.
func (v *MonthView) ClickEvent(ev model.Event) {
	if v.cb.OnEventClick != nil {
		v.cb.OnEventClick(ev)
	}
}

// ClickMore handles a click on the overflow label. The callback receives all
// events of the day, visible ones included. It returns false when the day
// does not overflow.
func (v *MonthView) ClickMore(date time.Time, events []model.Event) bool {
	dayEvents := grid.EventsOnDay(events, date.In(v.opts.Location))
	if _, hidden := VisibleCount(len(dayEvents), v.opts.MaxEventsPerDay); hidden == 0 {
		return false
	}
	if v.cb.OnMoreEventsClick != nil {
		v.cb.OnMoreEventsClick(date, dayEvents)
	}
	return true
}
