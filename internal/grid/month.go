package grid

import (
	"time"

	"gridcal/internal/dateutil"
	"gridcal/internal/model"
)

// MonthCells is the fixed size of a month grid: six full Sunday-first weeks.
const MonthCells = 6 * 7

// MonthDay pairs a grid cell with the events that fall on it.
type MonthDay struct {
	Cell   model.DayCell `json:"cell"`
	Events []model.Event `json:"events"`
}

// GenerateMonthGrid returns the 42 cells shown for month: the trailing days
// of the previous month needed to reach the first weekday, every day of the
// month, then as many days of the next month as fit.
func GenerateMonthGrid(year int, month time.Month, loc *time.Location) []model.DayCell {
	if loc == nil {
		loc = time.Local
	}
	cells := make([]model.DayCell, 0, MonthCells)

	leading := int(dateutil.FirstWeekdayOfMonth(year, month, loc))
	if leading > 0 {
		prevYear, prevMonth := year, month-1
		if month == time.January {
			prevYear, prevMonth = year-1, time.December
		}
		prevDays := dateutil.DaysInMonth(prevYear, prevMonth)
		for i := 0; i < leading; i++ {
			day := prevDays - leading + i + 1
			cells = append(cells, newCell(prevYear, prevMonth, day, false, loc))
		}
	}

	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		cells = append(cells, newCell(year, month, day, true, loc))
	}

	if remaining := MonthCells - len(cells); remaining > 0 {
		nextYear, nextMonth := year, month+1
		if month == time.December {
			nextYear, nextMonth = year+1, time.January
		}
		for day := 1; day <= remaining; day++ {
			cells = append(cells, newCell(nextYear, nextMonth, day, false, loc))
		}
	}

	return cells
}

// BuildMonth generates the month grid and attaches each cell's events.
func BuildMonth(year int, month time.Month, loc *time.Location, events []model.Event) []MonthDay {
	cells := GenerateMonthGrid(year, month, loc)
	days := make([]MonthDay, 0, len(cells))
	for _, c := range cells {
		days = append(days, MonthDay{Cell: c, Events: EventsOnDay(events, c.Date)})
	}
	return days
}

func newCell(year int, month time.Month, day int, current bool, loc *time.Location) model.DayCell {
	return model.DayCell{
		Day:          day,
		Month:        month,
		Year:         year,
		CurrentMonth: current,
		Date:         time.Date(year, month, day, 0, 0, 0, 0, loc),
	}
}
