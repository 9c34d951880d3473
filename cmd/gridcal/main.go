package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gridcal/internal/config"
	"gridcal/internal/dateutil"
	appLog "gridcal/internal/log"
)

const version = "0.1.0"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// cliError carries the process exit code for a failed command.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &cliError{code: exitUsage, err: err}
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	// cobra reports unknown commands as plain errors.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return exitUsage
	}
	return exitError
}

// app holds the flag values shared by every command and the effective
// configuration once loaded.
type app struct {
	configPath string
	extraICS   []string
	date       string
	localeID   string
	theme      string

	cfg    *config.Config
	stdout io.Writer
}

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	appLog.Sync()
	os.Exit(code)
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	return exitOK
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout}

	root := &cobra.Command{
		Use:           "gridcal",
		Short:         "Calendar month and week grids from ICS feeds",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "config.yaml", "Config file path")
	pf.StringArrayVar(&a.extraICS, "ics", nil, "Additional ICS file or URL (repeatable)")
	pf.StringVar(&a.date, "date", "", "Reference date YYYY-MM-DD (default today)")
	pf.StringVar(&a.localeID, "locale", "", "Locale override, e.g. en or fr-FR")
	pf.StringVar(&a.theme, "theme", "", "Theme override: light or dark")

	root.AddCommand(
		a.serveCmd(),
		a.monthCmd(),
		a.weekCmd(),
		a.snapshotCmd(),
	)
	return root
}

// loadConfig loads the config file, applies flag overrides and configures
// logging.
func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", a.configPath, err)
	}

	if a.localeID != "" {
		cfg.Locale = a.localeID
	}
	if a.theme != "" {
		switch strings.ToLower(a.theme) {
		case "light", "dark":
			cfg.Theme = a.theme
		default:
			return usageError(fmt.Errorf("invalid --theme %q: want light or dark", a.theme))
		}
	}
	for _, src := range a.extraICS {
		cfg.ICS = append(cfg.ICS, config.ICSConfig{ID: filepath.Base(src), URL: src})
	}
	cfg.Normalize()

	appLog.Setup(appLog.Options{Level: appLog.ParseLevel(cfg.Log.Level), File: cfg.Log.File})
	appLog.Debug("effective config",
		"config_path", a.configPath,
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"locale", cfg.Locale,
		"theme", cfg.Theme,
		"ics_count", len(cfg.ICS),
	)

	a.cfg = cfg
	return nil
}

// refDate resolves --date in the display zone, defaulting to today.
func (a *app) refDate() (time.Time, error) {
	loc := a.cfg.Location()
	if a.date == "" {
		return dateutil.StartOfDay(time.Now().In(loc)), nil
	}
	d, err := time.ParseInLocation(dateutil.DayKeyLayout, a.date, loc)
	if err != nil {
		return time.Time{}, usageError(fmt.Errorf("invalid --date %q: want YYYY-MM-DD", a.date))
	}
	return d, nil
}
