package view

import (
	"time"

	"gridcal/internal/dateutil"
	"gridcal/internal/grid"
	"gridcal/internal/model"
)

// WeekDayHeader is one column header of the week view.
type WeekDayHeader struct {
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Number      int       `json:"number"`
	Today       bool      `json:"today"`
	Past        bool      `json:"past"`
	Interactive bool      `json:"interactive"`
}

// WeekSlot is one (day, hour) cell of the week view.
type WeekSlot struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Events      []EventChip `json:"events"`
	Past        bool        `json:"past"`
	Interactive bool        `json:"interactive"`
}

// WeekRow is one hour across all 7 days.
type WeekRow struct {
	Hour  int        `json:"hour"`
	Label string     `json:"label"`
	Slots []WeekSlot `json:"slots"`
}

// WeekLayout is the complete, render-ready week view.
type WeekLayout struct {
	Days       []WeekDayHeader `json:"days"`
	Rows       []WeekRow       `json:"rows"`
	ScrollHour int             `json:"scroll_hour"`
	Theme      Theme           `json:"theme"`
}

// WeekView computes week layouts and dispatches day and slot clicks. It
// holds no mutable state.
type WeekView struct {
	opts Options
	cb   Callbacks
}

func NewWeekView(opts Options, cb Callbacks) *WeekView {
	return &WeekView{opts: opts.normalize(), cb: cb}
}

// Options returns the normalized options of the view.
func (v *WeekView) Options() Options { return v.opts }

// Layout builds the Sunday-first week containing date.
func (v *WeekView) Layout(date time.Time, events []model.Event) WeekLayout {
	now := v.opts.Now().In(v.opts.Location)
	g := grid.BuildWeek(date.In(v.opts.Location), v.opts.Hours, events)

	out := WeekLayout{
		Days:       make([]WeekDayHeader, 0, len(g.Days)),
		Rows:       make([]WeekRow, 0, len(g.Hours)),
		ScrollHour: v.scrollHour(),
		Theme:      v.opts.Theme,
	}
	for _, day := range g.Days {
		out.Days = append(out.Days, WeekDayHeader{
			Date:        day,
			Name:        v.opts.Locale.DayName(day.Weekday()),
			Number:      day.Day(),
			Today:       dateutil.IsTodayAt(day, now),
			Past:        dateutil.IsPastDateAt(day, now),
			Interactive: interactive(day, now, v.opts.AllowPastInteraction),
		})
	}

	for h, hour := range g.Hours {
		row := WeekRow{
			Hour:  hour,
			Label: v.opts.Locale.FormatHour(hour),
			Slots: make([]WeekSlot, 0, len(g.Days)),
		}
		for d, day := range g.Days {
			slot := g.Slots[d][h]
			chips := make([]EventChip, 0, len(slot.Events))
			for _, ev := range slot.Events {
				chips = append(chips, newChip(ev, now, v.opts.Location, v.opts.Ellipsis))
			}
			row.Slots = append(row.Slots, WeekSlot{
				Start:       slot.Start,
				End:         slot.End,
				Events:      chips,
				Past:        out.Days[d].Past,
				Interactive: interactive(day, now, v.opts.AllowPastInteraction),
			})
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func (v *WeekView) scrollHour() int {
	h := DefaultScrollHour
	if h < v.opts.Hours.From {
		h = v.opts.Hours.From
	}
	if h >= v.opts.Hours.To {
		h = v.opts.Hours.To - 1
	}
	return h
}

// ClickDay handles a click on a day header. It returns false when the day
// is in the past and past interaction is disabled.
func (v *WeekView) ClickDay(day time.Time) bool {
	day = day.In(v.opts.Location)
	if !interactive(day, v.opts.Now(), v.opts.AllowPastInteraction) {
		return false
	}
	if v.cb.OnDayClick != nil {
		v.cb.OnDayClick(dateutil.StartOfDay(day))
	}
	return true
}

// ClickSlot handles a click on empty space in a time slot and reports the
// one-hour range to OnSelectSlot. Clicks on hours outside the configured
// range and on past days (unless allowed) are ignored.
func (v *WeekView) ClickSlot(day time.Time, hour int) bool {
	day = day.In(v.opts.Location)
	if !v.opts.Hours.Contains(hour) {
		return false
	}
	if !interactive(day, v.opts.Now(), v.opts.AllowPastInteraction) {
		return false
	}
	if v.cb.OnSelectSlot != nil {
		v.cb.OnSelectSlot(grid.SlotStart(day, hour), grid.SlotEnd(day, hour))
	}
	return true
}

// ClickEvent handles a click on an event inside a slot. The slot's handler
// is never invoked.
func (v *WeekView) ClickEvent(ev model.Event) {
	if v.cb.OnEventClick != nil {
		v.cb.OnEventClick(ev)
	}
}
