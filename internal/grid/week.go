package grid

import (
	"time"

	"gridcal/internal/dateutil"
	"gridcal/internal/model"
)

// WeekDays is the number of columns in a week grid.
const WeekDays = 7

// HourRange is a half-open [From, To) range of hours shown on the week
// grid's row axis.
type HourRange struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

var (
	// FullDay shows every hour, midnight to midnight.
	FullDay = HourRange{From: 0, To: 24}
	// Daytime is the restricted window used by compact week views.
	Daytime = HourRange{From: 7, To: 21}
)

// Normalize clamps r into 0..24 and falls back to FullDay when the range is
// empty.
func (r HourRange) Normalize() HourRange {
	if r.From < 0 {
		r.From = 0
	}
	if r.To > 24 {
		r.To = 24
	}
	if r.From >= r.To {
		return FullDay
	}
	return r
}

// Hours lists the hour indices of r in ascending order.
func (r HourRange) Hours() []int {
	r = r.Normalize()
	hours := make([]int, 0, r.To-r.From)
	for h := r.From; h < r.To; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Contains reports whether hour is one of r's rows.
func (r HourRange) Contains(hour int) bool {
	r = r.Normalize()
	return hour >= r.From && hour < r.To
}

// WeekGrid is the week view data: 7 day columns and one slot per configured
// hour for every day. Slots is indexed [day][hour-row].
type WeekGrid struct {
	Days  []time.Time        `json:"days"`
	Hours []int              `json:"hours"`
	Slots [][]model.TimeSlot `json:"slots"`
}

// GenerateWeekGrid returns the 7 midnights of the Sunday-first week
// containing date.
func GenerateWeekGrid(date time.Time) []time.Time {
	start := dateutil.WeekStart(date)
	days := make([]time.Time, 0, WeekDays)
	for i := 0; i < WeekDays; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// BuildWeek lays out events on the week containing date, one slot per
// (day, hour). Each event lands in exactly one slot, or none when its hour
// is outside hours.
func BuildWeek(date time.Time, hours HourRange, events []model.Event) WeekGrid {
	days := GenerateWeekGrid(date)
	loc := date.Location()
	byDay := GroupByDay(events, loc)

	g := WeekGrid{
		Days:  days,
		Hours: hours.Hours(),
		Slots: make([][]model.TimeSlot, len(days)),
	}
	for i, day := range days {
		dayEvents := byDay[dateutil.DayKey(day)]
		row := make([]model.TimeSlot, 0, len(g.Hours))
		for _, h := range g.Hours {
			start := SlotStart(day, h)
			row = append(row, model.TimeSlot{
				Hour:   h,
				Start:  start,
				End:    SlotEnd(day, h),
				Events: EventsInHour(dayEvents, h, loc),
			})
		}
		g.Slots[i] = row
	}
	return g
}

// SlotStart is hour:00 on day.
func SlotStart(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// SlotEnd is the start of the following hour; hour 23 ends at the next
// day's midnight.
func SlotEnd(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour+1, 0, 0, 0, day.Location())
}
