package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"gridcal/internal/capture"
	"gridcal/internal/dateutil"
	"gridcal/internal/ics"
	appLog "gridcal/internal/log"
	"gridcal/internal/model"
	"gridcal/internal/render"
	"gridcal/internal/view"
	"gridcal/internal/web"
)

// icsCacheDir holds the per-URL conditional-request cache.
const icsCacheDir = "./cache/ics"

func (a *app) newFeed() *ics.Feed {
	return ics.NewFeed(ics.NewFetcher(icsCacheDir), a.cfg.Sources(), a.cfg.Location(), ics.DefaultTTL)
}

// loadEvents performs a single refresh for one-shot commands. Failed
// sources are logged and skipped.
func (a *app) loadEvents(ctx context.Context) []model.Event {
	events, err := a.newFeed().Events(ctx)
	if err != nil {
		appLog.Error("one or more ICS sources failed", err)
	}
	return events
}

// loggingCallbacks report interactions to the log; the server has no other
// consumer for them.
func loggingCallbacks() view.Callbacks {
	return view.Callbacks{
		OnDayClick: func(date time.Time) {
			appLog.Info("day clicked", "date", dateutil.DayKey(date))
		},
		OnEventClick: func(ev model.Event) {
			appLog.Info("event clicked", "uid", ev.UID, "title", ev.Title)
		},
		OnMoreEventsClick: func(date time.Time, events []model.Event) {
			appLog.Info("more events clicked", "date", dateutil.DayKey(date), "count", len(events))
		},
		OnSelectSlot: func(start, end time.Time) {
			appLog.Info("slot selected", "start", start.Format(time.RFC3339), "end", end.Format(time.RFC3339))
		},
	}
}

func (a *app) monthCmd() *cobra.Command {
	var asJSON, header bool
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print the month grid containing --date",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := a.refDate()
			if err != nil {
				return err
			}
			opts := a.cfg.ViewOptions()
			if cmd.Flags().Changed("header") {
				opts.Header = header
			}
			layout := view.NewMonthView(opts, view.Callbacks{}).Layout(date, a.loadEvents(cmd.Context()))
			if asJSON {
				return a.writeJSON(layout)
			}
			_, err = fmt.Fprint(a.stdout, render.Text(layout))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the layout as JSON")
	cmd.Flags().BoolVar(&header, "header", false, "Print the month title (default from config)")
	return cmd
}

func (a *app) weekCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the week grid containing --date",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := a.refDate()
			if err != nil {
				return err
			}
			layout := view.NewWeekView(a.cfg.ViewOptions(), view.Callbacks{}).Layout(date, a.loadEvents(cmd.Context()))
			if asJSON {
				return a.writeJSON(layout)
			}
			_, err = fmt.Fprint(a.stdout, render.TextWeek(layout))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the layout as JSON")
	return cmd
}

func (a *app) snapshotCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the configured view to a PNG with headless Chromium",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.refDate(); err != nil {
				return err
			}
			if output != "" {
				a.cfg.Snapshot.Path = output
			}
			opts := a.cfg.ViewOptions()
			srv := web.NewServer(a.cfg, a.newFeed(), view.NewMonthView(opts, view.Callbacks{}), view.NewWeekView(opts, view.Callbacks{}))
			return a.captureSnapshot(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG output path (default snapshot.path)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar UI and API, refreshing feeds on a schedule",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				a.cfg.Listen = listen
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	appLog.Info("gridcal starting",
		"version", version,
		"listen", a.cfg.Listen,
		"refresh", a.cfg.RefreshCron,
		"snapshot", a.cfg.Snapshot.Enabled,
		"ics_count", len(a.cfg.ICS),
	)

	opts := a.cfg.ViewOptions()
	cb := loggingCallbacks()
	feed := a.newFeed()
	srv := web.NewServer(a.cfg, feed, view.NewMonthView(opts, cb), view.NewWeekView(opts, cb))

	refresh := func() {
		if err := feed.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
		if a.cfg.Snapshot.Enabled {
			if err := a.captureSnapshot(ctx, srv); err != nil {
				appLog.Error("snapshot failed", err)
			}
		}
	}

	sched := cron.New()
	if _, err := sched.AddFunc(a.cfg.RefreshCron, refresh); err != nil {
		return usageError(fmt.Errorf("invalid refresh schedule %q: %w", a.cfg.RefreshCron, err))
	}
	sched.Start()
	defer func() {
		<-sched.Stop().Done()
	}()
	go refresh()

	return web.StartServer(ctx, srv, a.cfg.Listen)
}

// captureSnapshot serves the pages on an ephemeral loopback listener and
// captures the configured view from it, so snapshots work regardless of the
// public listen address or basic auth.
func (a *app) captureSnapshot(ctx context.Context, srv *web.Server) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("snapshot listener: %w", err)
	}
	hs := &http.Server{Handler: srv.PagesHandler(), ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = hs.Serve(ln) }()
	defer hs.Close()

	path, err := filepath.Abs(a.cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	return capture.CapturePNG(ctx, capture.Options{
		URL:        snapshotURL(ln.Addr().String(), a.cfg.Snapshot.View, a.date),
		OutputPath: path,
		Width:      a.cfg.Snapshot.Width,
		Height:     a.cfg.Snapshot.Height,
	})
}

// snapshotURL builds the page URL for a snapshot; date is a --date value
// and may be empty.
func snapshotURL(addr, page, date string) string {
	u := "http://" + addr + "/" + page
	if len(date) != len(dateutil.DayKeyLayout) {
		return u
	}
	if page == "week" {
		return u + "?date=" + date
	}
	return u + "?year=" + date[:4] + "&month=" + date[5:7]
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(fmt.Errorf("unexpected arguments: %v", args))
	}
	return nil
}
