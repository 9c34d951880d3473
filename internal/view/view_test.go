package view

import (
	"strconv"
	"testing"
	"time"

	"gridcal/internal/grid"
	"gridcal/internal/locale"
	"gridcal/internal/model"
)

// fixedNow is Monday 2025-03-10 15:00 UTC.
func fixedNow() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) }

func baseOptions() Options {
	return Options{Location: time.UTC, Now: fixedNow}
}

func eventsOn(day time.Time, n int) []model.Event {
	out := make([]model.Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Event{
			Title: "event " + strconv.Itoa(i),
			Date:  day.Add(time.Duration(8+i) * time.Hour),
			Color: "#ff0000",
		})
	}
	return out
}

func findCell(t *testing.T, l MonthLayout, day time.Time) MonthCell {
	t.Helper()
	for _, c := range l.Cells {
		if c.Date.Equal(day) {
			return c
		}
	}
	t.Fatalf("no cell for %s", day)
	return MonthCell{}
}

func TestMonthLayoutOverflow(t *testing.T) {
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	events := eventsOn(day, 7)

	var gotDate time.Time
	var gotEvents []model.Event
	v := NewMonthView(baseOptions(), Callbacks{
		OnMoreEventsClick: func(d time.Time, evs []model.Event) {
			gotDate, gotEvents = d, evs
		},
	})

	l := v.Layout(day, events)
	if len(l.Cells) != grid.MonthCells {
		t.Fatalf("cells = %d", len(l.Cells))
	}
	c := findCell(t, l, day)
	if len(c.Events) != 4 {
		t.Errorf("visible chips = %d, want 4", len(c.Events))
	}
	if c.MoreLabel != "+3 more" || c.HiddenCount != 3 {
		t.Errorf("more label = %q hidden = %d", c.MoreLabel, c.HiddenCount)
	}

	if !v.ClickMore(day, events) {
		t.Fatal("ClickMore on overflowing day returned false")
	}
	if !gotDate.Equal(day) || len(gotEvents) != 7 {
		t.Errorf("OnMoreEventsClick(%s, %d events), want all 7", gotDate, len(gotEvents))
	}
}

func TestMonthLayoutNoOverflowAtLimit(t *testing.T) {
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	events := eventsOn(day, 5)
	called := false
	v := NewMonthView(baseOptions(), Callbacks{
		OnMoreEventsClick: func(time.Time, []model.Event) { called = true },
	})

	c := findCell(t, v.Layout(day, events), day)
	if len(c.Events) != 5 || c.MoreLabel != "" {
		t.Errorf("chips = %d label = %q, want 5 and none", len(c.Events), c.MoreLabel)
	}
	if v.ClickMore(day, events) || called {
		t.Error("ClickMore fired for a day without overflow")
	}
}

func TestVisibleCount(t *testing.T) {
	tests := []struct {
		total, limit        int
		wantVis, wantHidden int
	}{
		{0, 5, 0, 0},
		{5, 5, 5, 0},
		{6, 5, 4, 2},
		{7, 5, 4, 3},
		{3, 1, 0, 3},
		{9, 0, 4, 5},
	}
	for _, tt := range tests {
		vis, hidden := VisibleCount(tt.total, tt.limit)
		if vis != tt.wantVis || hidden != tt.wantHidden {
			t.Errorf("VisibleCount(%d, %d) = %d, %d want %d, %d",
				tt.total, tt.limit, vis, hidden, tt.wantVis, tt.wantHidden)
		}
	}
}

func TestMonthClickDayPastRules(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	var clicks []time.Time
	cb := Callbacks{OnDayClick: func(d time.Time) { clicks = append(clicks, d) }}

	v := NewMonthView(baseOptions(), cb)
	if v.ClickDay(yesterday) {
		t.Error("past day accepted a click with past interaction disabled")
	}
	if !v.ClickDay(today) || !v.ClickDay(tomorrow) {
		t.Error("today/future click rejected")
	}
	if len(clicks) != 2 {
		t.Fatalf("OnDayClick called %d times, want 2", len(clicks))
	}

	opts := baseOptions()
	opts.AllowPastInteraction = true
	v = NewMonthView(opts, cb)
	if !v.ClickDay(yesterday) {
		t.Error("past day rejected with past interaction enabled")
	}

	c := findCell(t, v.Layout(today, nil), yesterday)
	if !c.Past || !c.Interactive {
		t.Errorf("yesterday cell past=%v interactive=%v", c.Past, c.Interactive)
	}
}

func TestMonthTodayAlwaysInteractive(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	v := NewMonthView(baseOptions(), Callbacks{})
	c := findCell(t, v.Layout(today, nil), today)
	if !c.Today || c.Past || !c.Interactive {
		t.Errorf("today cell = today:%v past:%v interactive:%v", c.Today, c.Past, c.Interactive)
	}
}

func TestMonthDaySelector(t *testing.T) {
	target := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	opts := baseOptions()
	opts.DaySelector = true
	var v *MonthView
	var seenInCallback time.Time
	v = NewMonthView(opts, Callbacks{OnDayClick: func(time.Time) {
		seenInCallback, _ = v.Selected()
	}})

	if sel, ok := v.Selected(); !ok || !sel.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("initial selection = %s ok=%v, want today", sel, ok)
	}
	v.ClickDay(target.Add(13 * time.Hour))
	if !seenInCallback.Equal(target) {
		t.Errorf("callback observed selection %s, want %s", seenInCallback, target)
	}

	l := v.Layout(target, nil)
	selected := 0
	for _, c := range l.Cells {
		if c.Selected {
			selected++
			if !c.Date.Equal(target) {
				t.Errorf("selected cell = %s", c.Date)
			}
		}
	}
	if selected != 1 {
		t.Errorf("%d selected cells, want 1", selected)
	}
}

func TestMonthSelectorDisabled(t *testing.T) {
	v := NewMonthView(baseOptions(), Callbacks{})
	v.ClickDay(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	if _, ok := v.Selected(); ok {
		t.Error("Selected() ok with day selector disabled")
	}
	for _, c := range v.Layout(fixedNow(), nil).Cells {
		if c.Selected {
			t.Fatalf("cell %s selected with day selector disabled", c.Date)
		}
	}
}

func TestClickEventDoesNotTriggerDay(t *testing.T) {
	dayClicks, eventClicks := 0, 0
	cb := Callbacks{
		OnDayClick:   func(time.Time) { dayClicks++ },
		OnEventClick: func(model.Event) { eventClicks++ },
	}
	ev := model.Event{Title: "x", Date: fixedNow()}

	NewMonthView(baseOptions(), cb).ClickEvent(ev)
	NewWeekView(baseOptions(), cb).ClickEvent(ev)

	if eventClicks != 2 || dayClicks != 0 {
		t.Errorf("event clicks = %d day clicks = %d", eventClicks, dayClicks)
	}
}

func TestMonthLayoutHeaderAndChips(t *testing.T) {
	opts := baseOptions()
	opts.Header = true
	opts.Ellipsis = true
	opts.Locale = locale.French
	v := NewMonthView(opts, Callbacks{})

	events := []model.Event{
		{Title: "past", Date: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)},
		{Title: "future", Date: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), Strikethrough: true, Color: "#00f"},
	}
	l := v.Layout(fixedNow(), events)
	if l.Title != "Mars 2025" {
		t.Errorf("title = %q", l.Title)
	}
	if l.Weekdays[0] != "dim" {
		t.Errorf("weekdays = %v", l.Weekdays)
	}

	past := findCell(t, l, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)).Events[0]
	if past.Future || past.DotColor != DefaultEventColor || !past.Ellipsis {
		t.Errorf("past chip = %+v", past)
	}
	future := findCell(t, l, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)).Events[0]
	if !future.Future || !future.Cancelled || future.DotColor != "#00f" {
		t.Errorf("future chip = %+v", future)
	}
}

func TestChipFutureUsesDisplayZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	opts := Options{Location: ny, Now: fixedNow}
	// 22:00 on the 10th in New York, already the 11th in UTC.
	events := []model.Event{{Title: "late", Date: time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)}}

	l := NewMonthView(opts, Callbacks{}).Layout(time.Date(2025, 3, 10, 0, 0, 0, 0, ny), events)
	c := findCell(t, l, time.Date(2025, 3, 10, 0, 0, 0, 0, ny))
	if !c.Today || len(c.Events) != 1 {
		t.Fatalf("today cell = today:%v events:%d", c.Today, len(c.Events))
	}
	if c.Events[0].Future {
		t.Error("event later today marked future in month view")
	}

	w := NewWeekView(opts, Callbacks{}).Layout(time.Date(2025, 3, 10, 0, 0, 0, 0, ny), events)
	chips := 0
	for _, row := range w.Rows {
		for _, slot := range row.Slots {
			for _, chip := range slot.Events {
				chips++
				if chip.Future {
					t.Errorf("event at hour %d marked future in week view", row.Hour)
				}
			}
		}
	}
	if chips != 1 {
		t.Errorf("week view placed %d chips, want 1", chips)
	}
}

func TestWeekLayout(t *testing.T) {
	events := []model.Event{
		{Title: "review", Date: time.Date(2025, 3, 10, 11, 30, 0, 0, time.UTC)},
	}
	v := NewWeekView(baseOptions(), Callbacks{})
	l := v.Layout(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), events)

	if len(l.Days) != 7 || len(l.Rows) != 24 {
		t.Fatalf("shape = %d days x %d rows", len(l.Days), len(l.Rows))
	}
	if l.Days[0].Date.Format("2006-01-02") != "2025-03-09" || l.Days[0].Name != "Sun" {
		t.Errorf("first day = %+v", l.Days[0])
	}
	if !l.Days[0].Past || l.Days[0].Interactive {
		t.Errorf("Sunday before today should be past and not interactive: %+v", l.Days[0])
	}
	if !l.Days[1].Today || !l.Days[1].Interactive {
		t.Errorf("Monday should be today and interactive: %+v", l.Days[1])
	}
	if l.ScrollHour != 9 {
		t.Errorf("scroll hour = %d", l.ScrollHour)
	}

	for _, row := range l.Rows {
		for d, slot := range row.Slots {
			want := 0
			if row.Hour == 11 && d == 1 {
				want = 1
			}
			if len(slot.Events) != want {
				t.Errorf("hour %d day %d has %d events, want %d", row.Hour, d, len(slot.Events), want)
			}
		}
	}
	if l.Rows[0].Label != "12:00 AM" {
		t.Errorf("first label = %q", l.Rows[0].Label)
	}
}

func TestWeekRestrictedHoursScroll(t *testing.T) {
	opts := baseOptions()
	opts.Hours = grid.HourRange{From: 12, To: 18}
	l := NewWeekView(opts, Callbacks{}).Layout(fixedNow(), nil)
	if len(l.Rows) != 6 || l.Rows[0].Hour != 12 {
		t.Fatalf("rows = %d first = %d", len(l.Rows), l.Rows[0].Hour)
	}
	if l.ScrollHour != 12 {
		t.Errorf("scroll hour = %d, want clamped to 12", l.ScrollHour)
	}
}

func TestWeekClickSlot(t *testing.T) {
	var start, end time.Time
	calls := 0
	v := NewWeekView(baseOptions(), Callbacks{OnSelectSlot: func(s, e time.Time) {
		start, end = s, e
		calls++
	}})

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !v.ClickSlot(today, 23) {
		t.Fatal("slot click on today rejected")
	}
	if !start.Equal(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)) ||
		!end.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("slot = %s..%s", start, end)
	}

	if v.ClickSlot(today.AddDate(0, 0, -1), 10) {
		t.Error("past slot accepted")
	}
	if v.ClickSlot(today, 24) {
		t.Error("out-of-range hour accepted")
	}
	if calls != 1 {
		t.Errorf("OnSelectSlot called %d times", calls)
	}
}

func TestWeekClickDay(t *testing.T) {
	var got time.Time
	opts := baseOptions()
	opts.AllowPastInteraction = true
	v := NewWeekView(opts, Callbacks{OnDayClick: func(d time.Time) { got = d }})

	if !v.ClickDay(time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC)) {
		t.Fatal("past day rejected with past interaction enabled")
	}
	if !got.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("OnDayClick(%s), want midnight", got)
	}
}
