package dateutil

import "time"

// DayKeyLayout is the ISO date layout used to key per-day buckets.
const DayKeyLayout = "2006-01-02"

// StartOfDay returns 00:00:00 of the given date in its own location.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day. b is
// viewed in a's location so that both sides use the same wall clock.
func IsSameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// IsToday returns true if d is today.
func IsToday(d time.Time) bool {
	return IsTodayAt(d, time.Now())
}

// IsTodayAt is IsToday against an explicit "now".
func IsTodayAt(d, now time.Time) bool {
	return IsSameDay(d, now)
}

// IsPastDate returns true if d is strictly before today, ignoring time of day.
func IsPastDate(d time.Time) bool {
	return IsPastDateAt(d, time.Now())
}

// IsPastDateAt is IsPastDate against an explicit "now".
func IsPastDateAt(d, now time.Time) bool {
	return StartOfDay(d).Before(StartOfDay(now.In(d.Location())))
}

// IsFutureDate returns true if d is strictly after today, ignoring time of day.
func IsFutureDate(d time.Time) bool {
	return IsFutureDateAt(d, time.Now())
}

// IsFutureDateAt is IsFutureDate against an explicit "now".
func IsFutureDateAt(d, now time.Time) bool {
	return StartOfDay(d).After(StartOfDay(now.In(d.Location())))
}

// DaysInMonth returns the number of days in month, computed as day 0 of
// the following month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st of month in loc.
func FirstWeekdayOfMonth(year int, month time.Month, loc *time.Location) time.Weekday {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, loc).Weekday()
}

// WeekStart returns midnight of the Sunday that starts the week containing d.
func WeekStart(d time.Time) time.Time {
	return StartOfDay(d).AddDate(0, 0, -int(d.Weekday()))
}

// DayKey formats d as an ISO date in d's own location.
func DayKey(d time.Time) string {
	return d.Format(DayKeyLayout)
}
