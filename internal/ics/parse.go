package ics

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "gridcal/internal/log"
	"gridcal/internal/model"
)

// StyleCategory is the Style key carrying an event's CATEGORIES value.
const StyleCategory = "category"

// ParseICS parses a single ICS payload into calendar events, one per VEVENT.
//
//   - Timed events are converted into loc; all-day events keep their date
//     and land on midnight in loc.
//   - RRULEs are not expanded: only the DTSTART instance is emitted.
//   - STATUS:CANCELLED marks the event as struck through.
//   - VEVENTs without a usable DTSTART are logged and skipped.
func ParseICS(src Source, body []byte, loc *time.Location) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, fmt.Errorf("ics: parse %s: %w", src.ID, err)
	}

	events := make([]model.Event, 0)
	skipped := 0
	for _, ve := range cal.Events() {
		ev, perr := eventFromVEvent(src, ve, loc)
		if perr != nil {
			skipped++
			appLog.Debug("ics vevent skipped", "id", src.ID, "reason", perr.Error())
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "event_count", len(events), "skipped", skipped)
	return events, nil
}

// LoadFile reads and parses a local .ics file.
func LoadFile(path string, src Source, loc *time.Location) ([]model.Event, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ics: read %s: %w", path, err)
	}
	return ParseICS(src, body, loc)
}

func eventFromVEvent(src Source, ve *ical.VEvent, loc *time.Location) (model.Event, error) {
	ev := model.Event{
		SourceID: src.ID,
		Color:    src.Color,
	}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		ev.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return ev, errors.New("missing DTSTART")
	}

	if isAllDay(dtStart) {
		day, err := ve.GetAllDayStartAt()
		if err != nil {
			return ev, err
		}
		ev.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return ev, err
		}
		ev.Date = start.In(loc)
	}

	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		ev.Strikethrough = strings.EqualFold(strings.TrimSpace(p.Value), "CANCELLED")
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil && p.Value != "" {
		ev.Style = map[string]string{StyleCategory: p.Value}
	}

	return ev, nil
}

// isAllDay reports VALUE=DATE or a date-only (no 'T') DTSTART.
func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}
