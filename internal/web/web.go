package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gridcal/internal/config"
	"gridcal/internal/dateutil"
	"gridcal/internal/grid"
	"gridcal/internal/ics"
	appLog "gridcal/internal/log"
	"gridcal/internal/model"
	"gridcal/internal/render"
	"gridcal/internal/view"
)

var (
	ErrBadDate  = errors.New("date must be YYYY-MM-DD")
	ErrBadYear  = errors.New("year must be a number")
	ErrBadMonth = errors.New("month must be between 1 and 12")
	ErrBadHour  = errors.New("hour must be a number")
)

// Server exposes calendar layouts as JSON and HTML, forwards clicks to the
// views and serves the last snapshot. Layouts are recomputed on every
// request; only feed events are cached (see ics.Feed).
type Server struct {
	cfg   *config.Config
	feed  *ics.Feed
	month *view.MonthView
	week  *view.WeekView
	loc   *time.Location
	mux   *http.ServeMux
}

// NewServer constructs a new Server. The views decide which callbacks run
// on clicks; the server only translates requests into view calls.
func NewServer(cfg *config.Config, feed *ics.Feed, month *view.MonthView, week *view.WeekView) *Server {
	s := &Server{
		cfg:   cfg,
		feed:  feed,
		month: month,
		week:  week,
		loc:   month.Options().Location,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// PagesHandler returns the routes without basic auth. It is meant for
// loopback listeners such as the snapshot renderer.
func (s *Server) PagesHandler() http.Handler {
	return s.mux
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials disable auth.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="gridcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves s on listen until ctx is canceled, then shuts down
// gracefully.
func StartServer(ctx context.Context, s *Server, listen string) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		appLog.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/month", s.handleMonthJSON)
	s.mux.HandleFunc("/api/week", s.handleWeekJSON)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/click/day", s.handleClickDay)
	s.mux.HandleFunc("/api/click/more", s.handleClickMore)
	s.mux.HandleFunc("/api/click/event", s.handleClickEvent)
	s.mux.HandleFunc("/api/click/slot", s.handleClickSlot)
	s.mux.HandleFunc("/month", s.handleMonthHTML)
	s.mux.HandleFunc("/week", s.handleWeekHTML)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/month", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// events returns the feed's events. A degraded feed still yields whatever
// it has cached, so the error is only logged.
func (s *Server) events(ctx context.Context) []model.Event {
	if s.feed == nil {
		return []model.Event{}
	}
	events, err := s.feed.Events(ctx)
	if err != nil {
		appLog.Error("feed refresh failed; serving cached events", err, "cached", len(events))
	}
	return events
}

// handleMonthJSON returns the month layout.
//
// GET /api/month?year=2025&month=2
//   - year, month: default to the current month (month is 1-12)
func (s *Server) handleMonthJSON(w http.ResponseWriter, r *http.Request) {
	ref, err := s.monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.month.Layout(ref, s.events(r.Context())))
}

// handleWeekJSON returns the week layout for the week containing date.
//
// GET /api/week?date=2025-03-12
func (s *Server) handleWeekJSON(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.week.Layout(date, s.events(r.Context())))
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Events          []model.Event `json:"events"`
	Sources         int           `json:"sources"`
	DisplayTimeZone string        `json:"display_timezone"`
}

// handleEvents returns every event currently known to the feed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sources := 0
	if s.feed != nil {
		sources = len(s.feed.Sources())
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		Events:          s.events(r.Context()),
		Sources:         sources,
		DisplayTimeZone: s.loc.String(),
	})
}

// clickResponse reports whether a click was accepted by the view.
type clickResponse struct {
	Accepted bool          `json:"accepted"`
	Selected *time.Time    `json:"selected,omitempty"`
	Start    *time.Time    `json:"start,omitempty"`
	End      *time.Time    `json:"end,omitempty"`
	Events   []model.Event `json:"events,omitempty"`
}

// handleClickDay forwards a day click to the month view.
//
// POST /api/click/day?date=2025-03-12
func (s *Server) handleClickDay(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	date, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := clickResponse{Accepted: s.month.ClickDay(date)}
	if sel, ok := s.month.Selected(); ok {
		resp.Selected = &sel
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleClickMore forwards a click on a "+N more" label and returns every
// event of that day.
//
// POST /api/click/more?date=2025-03-12
func (s *Server) handleClickMore(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	date, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events := s.events(r.Context())
	resp := clickResponse{Accepted: s.month.ClickMore(date, events)}
	if resp.Accepted {
		resp.Events = grid.EventsOnDay(events, date)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleClickEvent forwards a click on an event chip, identified by UID.
//
// POST /api/click/event?uid=standup-1
func (s *Server) handleClickEvent(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}
	for _, ev := range s.events(r.Context()) {
		if ev.UID == uid {
			s.month.ClickEvent(ev)
			writeJSON(w, http.StatusOK, clickResponse{Accepted: true, Events: []model.Event{ev}})
			return
		}
	}
	writeError(w, http.StatusNotFound, "event not found")
}

// handleClickSlot forwards a click on an empty week slot.
//
// POST /api/click/slot?date=2025-03-12&hour=14
func (s *Server) handleClickSlot(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	date, err := s.dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hour, err := strconv.Atoi(r.URL.Query().Get("hour"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrBadHour.Error())
		return
	}

	resp := clickResponse{Accepted: s.week.ClickSlot(date, hour)}
	if resp.Accepted {
		start, end := grid.SlotStart(date, hour), grid.SlotEnd(date, hour)
		resp.Start, resp.End = &start, &end
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonthHTML(w http.ResponseWriter, r *http.Request) {
	ref, err := s.monthParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	layout := s.month.Layout(ref, s.events(r.Context()))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTMLMonth(w, s.lang(), layout); err != nil {
		appLog.Error("month page render failed", err)
	}
}

func (s *Server) handleWeekHTML(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateParam(r, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	layout := s.week.Layout(date, s.events(r.Context()))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTMLWeek(w, s.lang(), layout); err != nil {
		appLog.Error("week page render failed", err)
	}
}

// handlePreview serves the last captured PNG snapshot from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile maps a missing file to 404.
	http.ServeFile(w, r, s.cfg.Snapshot.Path)
}

func (s *Server) lang() string {
	return s.month.Options().Locale.ID
}

// monthParam resolves ?year=&month= to the 1st of that month, defaulting
// each missing part to the current month.
func (s *Server) monthParam(r *http.Request) (time.Time, error) {
	now := time.Now().In(s.loc)
	q := r.URL.Query()

	year := now.Year()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return time.Time{}, ErrBadYear
		}
		year = n
	}
	month := now.Month()
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return time.Time{}, ErrBadMonth
		}
		month = time.Month(n)
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, s.loc), nil
}

// dateParam parses a YYYY-MM-DD query parameter in the display zone; a
// missing parameter means today.
func (s *Server) dateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return dateutil.StartOfDay(time.Now().In(s.loc)), nil
	}
	d, err := time.ParseInLocation(dateutil.DayKeyLayout, v, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, v)
	}
	return d, nil
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
