package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/orrery/internal/api"
	"github.com/signalsfoundry/orrery/internal/config"
	"github.com/signalsfoundry/orrery/internal/ephemeris"
	"github.com/signalsfoundry/orrery/internal/logging"
	"github.com/signalsfoundry/orrery/internal/observability"
	"github.com/signalsfoundry/orrery/internal/storage"
	"github.com/signalsfoundry/orrery/internal/web/assets"
	"github.com/signalsfoundry/orrery/kb"
	"github.com/signalsfoundry/orrery/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "orrery-server",
		Short:        "Serve the orrery page and its position, planet-info and space-weather lookups",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log, nil, nil)
		},
	}

	d := config.DefaultConfig()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "yaml config file")
	flags := cmd.Flags()
	flags.String("addr", d.Server.Address, "HTTP listen address")
	flags.String("health-addr", d.Server.HealthAddress, "gRPC health listen address (empty disables)")
	flags.String("wasm-dir", d.Server.WASMDir, "directory holding orrery.wasm and wasm_exec.js")
	flags.Bool("cache", d.Cache.Enabled, "cache position snapshots in SQLite")
	flags.String("cache-dsn", d.Cache.DSN, "SQLite DSN of the snapshot cache")
	flags.String("log-level", d.Logging.Level, "debug, info, warn or error")
	flags.String("log-format", d.Logging.Format, "text or json")

	for key, flag := range map[string]string{
		"server.address":        "addr",
		"server.health_address": "health-addr",
		"server.wasm_dir":       "wasm-dir",
		"cache.enabled":         "cache",
		"cache.dsn":             "cache-dsn",
		"logging.level":         "log-level",
		"logging.format":        "log-format",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

// run serves until ctx is cancelled. Nil listeners are opened from cfg;
// tests pass their own.
func run(ctx context.Context, cfg config.Config, log logging.Logger, lis, healthLis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	serverMetrics, err := observability.NewServerCollector(nil)
	if err != nil {
		return fmt.Errorf("server metrics: %w", err)
	}
	ephemerisMetrics, err := observability.NewEphemerisCollector(nil)
	if err != nil {
		return fmt.Errorf("ephemeris metrics: %w", err)
	}

	catalog := kb.NewSolarSystem()
	opts := []ephemeris.ServiceOption{ephemeris.WithMetrics(ephemerisMetrics)}
	if cfg.Cache.Enabled {
		cache, err := storage.Open(cfg.Cache.DSN)
		if err != nil {
			return fmt.Errorf("open snapshot cache: %w", err)
		}
		defer cache.Close()
		opts = append(opts, ephemeris.WithCache(cache))
	}
	svc := ephemeris.NewService(catalog, log, opts...)
	defer svc.Close()

	// Applied after the service subscribes so cached snapshots drawn with
	// other radii are purged.
	for key, r := range cfg.Ephemeris.Rings {
		id, err := model.ParseBodyID(key)
		if err != nil {
			return err
		}
		if err := catalog.SetRingRadius(id, r); err != nil {
			return fmt.Errorf("ring override %s: %w", key, err)
		}
	}

	annotations, err := loadAnnotations(cfg.Ephemeris.AnnotationsPath)
	if err != nil {
		return err
	}

	server, err := api.NewServer(svc, log,
		api.WithMetrics(serverMetrics),
		api.WithRings(catalog.RingRadii()),
		api.WithAnnotations(annotations),
		api.WithWASMDir(cfg.Server.WASMDir),
	)
	if err != nil {
		return fmt.Errorf("build api: %w", err)
	}

	if lis == nil {
		if lis, err = net.Listen("tcp", cfg.Server.Address); err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Server.Address, err)
		}
	}
	httpSrv := &http.Server{
		Handler:           server.Routes(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info(ctx, "serving orrery", logging.String("addr", lis.Addr().String()))
		if err := httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	var stopHealth func()
	if healthLis == nil && cfg.Server.HealthAddress != "" {
		if healthLis, err = net.Listen("tcp", cfg.Server.HealthAddress); err != nil {
			_ = httpSrv.Close()
			return fmt.Errorf("listen %s: %w", cfg.Server.HealthAddress, err)
		}
	}
	if healthLis != nil {
		srv, hs := api.NewHealthServer(log, serverMetrics)
		grpcSrv, stopHealth = srv, hs.Shutdown
		go func() {
			log.Info(ctx, "serving gRPC health", logging.String("addr", healthLis.Addr().String()))
			if err := srv.Serve(healthLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	log.Info(context.Background(), "shutting down orrery server")
	if stopHealth != nil {
		stopHealth()
	}
	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "http shutdown incomplete", logging.Err(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	return runErr
}

func loadAnnotations(path string) (model.Annotations, error) {
	if path == "" {
		return assets.Annotations()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	return assets.ParseAnnotations(raw)
}
