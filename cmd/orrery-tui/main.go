package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/signalsfoundry/orrery/internal/client"
	"github.com/signalsfoundry/orrery/internal/config"
	"github.com/signalsfoundry/orrery/internal/ephemeris"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/orrery"
	"github.com/signalsfoundry/orrery/internal/prefs"
	"github.com/signalsfoundry/orrery/internal/storage"
	"github.com/signalsfoundry/orrery/internal/tui"
	"github.com/signalsfoundry/orrery/internal/web/assets"
	"github.com/signalsfoundry/orrery/kb"
	"github.com/signalsfoundry/orrery/timectrl"
)

// options collects the resolved command-line settings.
type options struct {
	Server    string
	CacheDSN  string
	PrefsPath string
	Interval  time.Duration
	StepDays  int
	LogFile   string
	LogLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix + "_TUI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "orrery-tui",
		Short:        "Browse planet positions by date in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options{
				Server:    v.GetString("server"),
				CacheDSN:  v.GetString("cache-dsn"),
				PrefsPath: v.GetString("prefs"),
				Interval:  v.GetDuration("interval"),
				StepDays:  v.GetInt("step-days"),
				LogFile:   v.GetString("log-file"),
				LogLevel:  v.GetString("log-level"),
			}
			log, closeLog, err := openLog(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, log, nil)
		},
	}

	flags := cmd.Flags()
	flags.String("server", "", "orrery server base URL (empty computes positions locally)")
	flags.String("cache-dsn", "", "SQLite DSN for a local snapshot cache (offline mode only)")
	flags.String("prefs", "", "preference file (defaults to the user config dir)")
	flags.Duration("interval", 500*time.Millisecond, "autoplay tick interval")
	flags.Int("step-days", 1, "days advanced per autoplay tick")
	flags.String("log-file", "", "write logs to this file (empty discards them)")
	flags.String("log-level", "info", "debug, info, warn or error")
	_ = v.BindPFlags(flags)
	return cmd
}

// openLog keeps log output off the terminal the UI is drawing on.
func openLog(opts options) (logging.Logger, func(), error) {
	if opts.LogFile == "" {
		return logging.Noop(), func() {}, nil
	}
	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := logging.New(logging.Config{Level: opts.LogLevel, Writer: f})
	return log, func() { _ = f.Close() }, nil
}

// run drives the UI until the user quits or ctx is cancelled. A nil screen
// opens the controlling terminal.
func run(ctx context.Context, opts options, log logging.Logger, screen tcell.Screen) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend, closeBackend, err := newBackend(opts, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	store, err := newPrefs(opts.PrefsPath)
	if err != nil {
		log.Warn(ctx, "preferences unavailable, using memory", logging.Err(err))
		store = prefs.NewMemoryStore()
	}

	annotations, err := assets.Annotations()
	if err != nil {
		return fmt.Errorf("load annotations: %w", err)
	}

	if screen == nil {
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	screen.EnableMouse()
	screenDone := false
	finish := func() {
		if !screenDone {
			screenDone = true
			screen.Fini()
		}
	}
	defer finish()

	loop := orrery.NewLoop(log)
	ui := tui.New(screen, tui.Options{
		Loop:  loop,
		Rings: kb.NewSolarSystem().RingRadii(),
		Log:   log,
		Quit:  cancel,
	})
	autoplay := timectrl.NewTimeController(opts.Interval, opts.StepDays)
	defer autoplay.Stop()

	app := orrery.NewApp(ctx, orrery.Options{
		Loop:        loop,
		Backend:     backend,
		Views:       ui.Views(),
		Annotations: annotations,
		Prefs:       store,
		Clock:       timectrl.SystemClock{},
		Autoplay:    autoplay,
		Log:         log,
	})
	ui.Bind(app)
	app.Start()

	go ui.PollEvents(ctx)
	err = loop.Run(ctx)
	finish()
	if ctx.Err() != nil && err == ctx.Err() {
		return nil
	}
	return err
}

// newBackend picks the remote client or an in-process ephemeris.
func newBackend(opts options, log logging.Logger) (orrery.Backend, func(), error) {
	if opts.Server != "" {
		c, err := client.New(opts.Server, client.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}

	var svcOpts []ephemeris.ServiceOption
	var closer io.Closer
	if opts.CacheDSN != "" {
		cache, err := storage.Open(opts.CacheDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot cache: %w", err)
		}
		svcOpts = append(svcOpts, ephemeris.WithCache(cache))
		closer = cache
	}
	svc := ephemeris.NewService(kb.NewSolarSystem(), log, svcOpts...)
	return svc, func() {
		svc.Close()
		if closer != nil {
			_ = closer.Close()
		}
	}, nil
}

func newPrefs(path string) (prefs.Store, error) {
	if path == "" {
		p, err := prefs.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return prefs.NewFileStore(path), nil
}
