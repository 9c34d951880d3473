package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gridcal/internal/grid"
	"gridcal/internal/ics"
	"gridcal/internal/locale"
	appLog "gridcal/internal/log"
	"gridcal/internal/view"
)

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	// URL is the ICS subscription endpoint or a local file path.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for logging and event provenance.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Color is applied to every event from this source (CSS color).
	Color string `yaml:"color" json:"color"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// LogConfig selects the log level and an optional rotated log file.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// SnapshotConfig controls the PNG snapshot taken after each refresh.
type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	// View is "month" or "week".
	View   string `yaml:"view" json:"view"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone whose wall clock defines "days".
	// Empty means the host's local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Locale is a BCP-47 tag; "en" and "fr" are built in.
	Locale string `yaml:"locale" json:"locale"`

	// Theme is "light" (default) or "dark".
	Theme string `yaml:"theme" json:"theme"`

	// MaxEventsPerDay bounds the event chips shown in a month cell before
	// the "+N more" label takes over.
	MaxEventsPerDay int `yaml:"max_events_per_day" json:"max_events_per_day"`

	DaySelector          bool `yaml:"day_selector" json:"day_selector"`
	AllowPastInteraction bool `yaml:"allow_past_interaction" json:"allow_past_interaction"`
	Ellipsis             bool `yaml:"ellipsis" json:"ellipsis"`
	Header               bool `yaml:"header" json:"header"`

	// WeekHours is the half-open hour range shown in the week view.
	WeekHours grid.HourRange `yaml:"week_hours" json:"week_hours"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used to refresh ICS feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
	Log      LogConfig      `yaml:"log" json:"log"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen          = "127.0.0.1:8080"
	defaultLocale          = "en"
	defaultTheme           = "light"
	defaultMaxEventsPerDay = 5
	defaultRefreshCron     = "*/15 * * * *"
	defaultSnapshotPath    = "./cache/preview.png"
	defaultSnapshotWidth   = 1304
	defaultSnapshotHeight  = 984
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		Locale:          defaultLocale,
		Theme:           defaultTheme,
		MaxEventsPerDay: defaultMaxEventsPerDay,
		WeekHours:       grid.FullDay,
		RefreshCron:     defaultRefreshCron,
		Snapshot: SnapshotConfig{
			Path:   defaultSnapshotPath,
			View:   "month",
			Width:  defaultSnapshotWidth,
			Height: defaultSnapshotHeight,
		},
		Log: LogConfig{Level: "info"},
		ICS: []ICSConfig{},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	switch strings.ToLower(c.Theme) {
	case "light", "dark":
		c.Theme = strings.ToLower(c.Theme)
	default:
		c.Theme = defaultTheme
	}
	if c.MaxEventsPerDay <= 0 {
		c.MaxEventsPerDay = defaultMaxEventsPerDay
	}
	c.WeekHours = c.WeekHours.Normalize()
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	switch c.Snapshot.View {
	case "month", "week":
	default:
		c.Snapshot.View = "month"
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = defaultSnapshotPath
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = defaultSnapshotWidth
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = defaultSnapshotHeight
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	for i := range c.ICS {
		if c.ICS[i].ID == "" {
			if c.ICS[i].Name != "" {
				c.ICS[i].ID = c.ICS[i].Name
			} else {
				c.ICS[i].ID = c.ICS[i].URL
			}
		}
	}
}

// Location resolves Timezone, falling back to time.Local when it is empty
// or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// ViewOptions maps the display settings onto calendar view options.
func (c *Config) ViewOptions() view.Options {
	return view.Options{
		Locale:               locale.Lookup(c.Locale),
		Theme:                view.Theme(c.Theme),
		MaxEventsPerDay:      c.MaxEventsPerDay,
		DaySelector:          c.DaySelector,
		AllowPastInteraction: c.AllowPastInteraction,
		Ellipsis:             c.Ellipsis,
		Header:               c.Header,
		Hours:                c.WeekHours,
		Location:             c.Location(),
	}
}

// Sources converts the configured ICS entries into feed sources, skipping
// entries without a URL.
func (c *Config) Sources() []ics.Source {
	sources := make([]ics.Source, 0, len(c.ICS))
	for _, src := range c.ICS {
		if src.URL == "" {
			continue
		}
		sources = append(sources, ics.Source{ID: src.ID, URL: src.URL, Color: src.Color})
	}
	return sources
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".gridcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
