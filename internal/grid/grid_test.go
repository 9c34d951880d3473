package grid

import (
	"testing"
	"time"

	"gridcal/internal/model"
)

func TestGenerateMonthGridAlways42ConsecutiveDays(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := GenerateMonthGrid(year, month, time.UTC)
			if len(cells) != MonthCells {
				t.Fatalf("%d-%02d: got %d cells, want %d", year, month, len(cells), MonthCells)
			}
			if cells[0].Date.Weekday() != time.Sunday {
				t.Fatalf("%d-%02d: first cell is %s, want Sunday", year, month, cells[0].Date.Weekday())
			}
			for i := 1; i < len(cells); i++ {
				want := cells[i-1].Date.AddDate(0, 0, 1)
				if !cells[i].Date.Equal(want) {
					t.Fatalf("%d-%02d: cell %d = %s, want %s", year, month, i,
						cells[i].Date.Format("2006-01-02"), want.Format("2006-01-02"))
				}
			}
			for _, c := range cells {
				if c.Day == 1 && c.Month == month && !c.CurrentMonth {
					t.Fatalf("%d-%02d: day 1 not marked current month", year, month)
				}
				inMonth := c.Month == month && c.Year == year
				if c.CurrentMonth != inMonth {
					t.Fatalf("%d-%02d: cell %s CurrentMonth=%v", year, month, c.Date.Format("2006-01-02"), c.CurrentMonth)
				}
				if c.Date.Day() != c.Day || c.Date.Month() != c.Month || c.Date.Year() != c.Year {
					t.Fatalf("cell fields %d/%d/%d disagree with date %s", c.Year, c.Month, c.Day, c.Date)
				}
			}
		}
	}
}

func TestGenerateMonthGridFebruary2025(t *testing.T) {
	cells := GenerateMonthGrid(2025, time.February, time.UTC)

	var prev, cur, next []int
	for _, c := range cells {
		switch {
		case c.Month == time.January:
			prev = append(prev, c.Day)
		case c.Month == time.February:
			cur = append(cur, c.Day)
		case c.Month == time.March:
			next = append(next, c.Day)
		default:
			t.Fatalf("unexpected cell %+v", c)
		}
	}

	if len(prev) != 6 || prev[0] != 26 || prev[5] != 31 {
		t.Errorf("leading filler = %v, want January 26..31", prev)
	}
	if len(cur) != 28 || cur[0] != 1 || cur[27] != 28 {
		t.Errorf("current month = %d cells, want 28", len(cur))
	}
	if len(next) != 8 || next[0] != 1 || next[7] != 8 {
		t.Errorf("trailing filler = %v, want March 1..8", next)
	}
}

func TestGenerateMonthGridWrapsYears(t *testing.T) {
	jan := GenerateMonthGrid(2025, time.January, time.UTC)
	// January 1 2025 is a Wednesday: three filler days from December 2024.
	if jan[0].Year != 2024 || jan[0].Month != time.December || jan[0].Day != 29 {
		t.Errorf("January 2025 first cell = %+v, want 2024-12-29", jan[0])
	}

	dec := GenerateMonthGrid(2025, time.December, time.UTC)
	last := dec[len(dec)-1]
	if last.Year != 2026 || last.Month != time.January || last.CurrentMonth {
		t.Errorf("December 2025 last cell = %+v, want January 2026 filler", last)
	}
}

func TestGenerateMonthGridNoLeadingFiller(t *testing.T) {
	// June 1 2025 is a Sunday.
	cells := GenerateMonthGrid(2025, time.June, time.UTC)
	if !cells[0].CurrentMonth || cells[0].Day != 1 {
		t.Errorf("first cell = %+v, want June 1", cells[0])
	}
}

func TestGenerateWeekGrid(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday", time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), "2025-03-02"},
		{"sunday", time.Date(2025, 3, 2, 23, 0, 0, 0, time.UTC), "2025-03-02"},
		{"saturday", time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), "2025-03-02"},
		{"year boundary", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2025-12-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := GenerateWeekGrid(tt.in)
			if len(days) != WeekDays {
				t.Fatalf("got %d days, want 7", len(days))
			}
			if got := days[0].Format("2006-01-02"); got != tt.want {
				t.Errorf("anchor = %s, want %s", got, tt.want)
			}
			if days[0].Weekday() != time.Sunday {
				t.Errorf("anchor weekday = %s", days[0].Weekday())
			}
			for i := 1; i < len(days); i++ {
				if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
					t.Errorf("day %d = %s not consecutive", i, days[i])
				}
			}
		})
	}
}

func TestEventsOnDay(t *testing.T) {
	events := []model.Event{
		{Title: "a", Date: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{Title: "b", Date: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
		{Title: "c", Date: time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)},
		{Title: "d", Date: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	before := append([]model.Event(nil), events...)

	got := EventsOnDay(events, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Fatalf("EventsOnDay = %+v, want [a c]", got)
	}
	for i := range events {
		if events[i].Title != before[i].Title || !events[i].Date.Equal(before[i].Date) {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestBuildWeekPlacesEventInSingleHourSlot(t *testing.T) {
	ev := model.Event{Title: "standup", Date: time.Date(2025, 3, 10, 11, 30, 0, 0, time.UTC)}
	g := BuildWeek(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), FullDay, []model.Event{ev})

	if len(g.Slots) != WeekDays || len(g.Hours) != 24 {
		t.Fatalf("grid shape = %dx%d", len(g.Slots), len(g.Hours))
	}

	found := 0
	for d, row := range g.Slots {
		for _, slot := range row {
			if len(slot.Events) == 0 {
				continue
			}
			found += len(slot.Events)
			if g.Days[d].Format("2006-01-02") != "2025-03-10" || slot.Hour != 11 {
				t.Errorf("event in day %s hour %d, want 2025-03-10 hour 11", g.Days[d].Format("2006-01-02"), slot.Hour)
			}
			if !slot.Start.Equal(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)) ||
				!slot.End.Equal(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)) {
				t.Errorf("slot bounds = %s..%s", slot.Start, slot.End)
			}
		}
	}
	if found != 1 {
		t.Fatalf("event placed %d times, want exactly once", found)
	}
}

func TestBuildWeekRestrictedHours(t *testing.T) {
	events := []model.Event{
		{Title: "early", Date: time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)},
		{Title: "noon", Date: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	g := BuildWeek(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Daytime, events)
	if g.Hours[0] != 7 || g.Hours[len(g.Hours)-1] != 20 {
		t.Fatalf("hours = %v, want 7..20", g.Hours)
	}
	total := 0
	for _, row := range g.Slots {
		for _, slot := range row {
			total += len(slot.Events)
		}
	}
	if total != 1 {
		t.Fatalf("placed %d events, want only the noon one", total)
	}
}

func TestHourRangeNormalize(t *testing.T) {
	tests := []struct {
		in   HourRange
		want HourRange
	}{
		{HourRange{}, FullDay},
		{HourRange{From: -3, To: 30}, FullDay},
		{HourRange{From: 9, To: 9}, FullDay},
		{HourRange{From: 8, To: 18}, HourRange{From: 8, To: 18}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestGroupByDayKeysInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	events := []model.Event{
		// 02:00 UTC on the 11th is 21:00 on the 10th in UTC-5.
		{Title: "late", Date: time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)},
	}
	grouped := GroupByDay(events, loc)
	if len(grouped["2025-03-10"]) != 1 {
		t.Fatalf("grouped = %v, want event under 2025-03-10", grouped)
	}
}
