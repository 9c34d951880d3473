package grid

import (
	"time"

	"gridcal/internal/dateutil"
	"gridcal/internal/model"
)

// EventsOnDay returns the events that fall on the same calendar day as day,
// in input order. The input slice is not modified.
func EventsOnDay(events []model.Event, day time.Time) []model.Event {
	out := make([]model.Event, 0)
	for _, ev := range events {
		if dateutil.IsSameDay(day, ev.Date) {
			out = append(out, ev)
		}
	}
	return out
}

// GroupByDay buckets events by their ISO date in loc. Order inside each
// bucket follows the input order.
func GroupByDay(events []model.Event, loc *time.Location) map[string][]model.Event {
	if loc == nil {
		loc = time.Local
	}
	grouped := make(map[string][]model.Event)
	for _, ev := range events {
		key := dateutil.DayKey(ev.Date.In(loc))
		grouped[key] = append(grouped[key], ev)
	}
	return grouped
}

// EventsInHour filters a single day's events down to those starting within
// hour (in loc).
func EventsInHour(dayEvents []model.Event, hour int, loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}
	out := make([]model.Event, 0)
	for _, ev := range dayEvents {
		if ev.Date.In(loc).Hour() == hour {
			out = append(out, ev)
		}
	}
	return out
}
