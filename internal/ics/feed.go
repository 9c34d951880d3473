package ics

import (
	"context"
	"errors"
	"sync"
	"time"

	appLog "gridcal/internal/log"
	"gridcal/internal/model"
)

// DefaultTTL bounds how long fetched events are served before a request
// triggers a refetch.
const DefaultTTL = 30 * time.Second

// Feed aggregates events from all configured sources. Parsed events are
// kept in memory for TTL to avoid refetching on every request; grids are
// still recomputed from them on every render.
type Feed struct {
	fetcher *Fetcher
	sources []Source
	loc     *time.Location
	ttl     time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	events    []model.Event
	updatedAt time.Time
}

func NewFeed(fetcher *Fetcher, sources []Source, loc *time.Location, ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if loc == nil {
		loc = time.Local
	}
	return &Feed{
		fetcher: fetcher,
		sources: sources,
		loc:     loc,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Sources returns the configured sources.
func (f *Feed) Sources() []Source { return f.sources }

// Events returns the cached events, refreshing first when the cache is
// older than the TTL. A failed refresh still returns whatever is cached.
func (f *Feed) Events(ctx context.Context) ([]model.Event, error) {
	f.mu.RLock()
	fresh := !f.updatedAt.IsZero() && f.now().Sub(f.updatedAt) < f.ttl
	cached := f.events
	f.mu.RUnlock()
	if fresh {
		return cached, nil
	}

	if err := f.Refresh(ctx); err != nil {
		f.mu.RLock()
		defer f.mu.RUnlock()
		return f.events, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.events, nil
}

// Refresh fetches and parses every source and replaces the cached events.
// Sources that fail are skipped; the returned error joins their failures.
func (f *Feed) Refresh(ctx context.Context) error {
	if len(f.sources) == 0 {
		f.store(nil)
		return nil
	}

	results, errs := f.fetcher.FetchAll(ctx, f.sources)
	events := make([]model.Event, 0)
	for _, res := range results {
		parsed, err := ParseICS(res.Source, res.Body, f.loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, parsed...)
	}

	if len(results) == 0 && len(errs) > 0 {
		// Nothing usable: keep the previous events but restart the TTL so
		// requests do not hammer an unreachable upstream.
		f.mu.Lock()
		if f.events == nil {
			f.events = []model.Event{}
		}
		f.updatedAt = f.now()
		f.mu.Unlock()
		return errors.Join(errs...)
	}
	f.store(events)
	appLog.Info("feed refreshed", "sources", len(f.sources), "events", len(events), "errors", len(errs))
	return errors.Join(errs...)
}

func (f *Feed) store(events []model.Event) {
	if events == nil {
		events = []model.Event{}
	}
	f.mu.Lock()
	f.events = events
	f.updatedAt = f.now()
	f.mu.Unlock()
}
