package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/gateway"
	"github.com/MrEthical07/bankgate/internal/audit"
	"github.com/MrEthical07/bankgate/internal/config"
	"github.com/MrEthical07/bankgate/internal/metrics"
	"github.com/MrEthical07/bankgate/internal/rate"
	"github.com/MrEthical07/bankgate/internal/telemetry"
	"github.com/MrEthical07/bankgate/session"
	"github.com/MrEthical07/bankgate/web"
)

var (
	serveAddr string
	devMode   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web server.

With --dev the server needs nothing but a banking API: sessions live in an
embedded Redis, logging is at debug level and audit events go to stderr.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "development mode (embedded Redis, debug logging, audit to stderr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("loaded config", "file", used)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      app.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "api", cfg.API.BaseURL, "sessions", cfg.Session.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadConfig reads the configuration, applies command-line overrides and validates the
// result.
func loadConfig() (*bankgate.Config, error) {
	cfg, err := config.LoadRaw(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if devMode {
		config.ApplyDevDefaults(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// app is the assembled server with everything that must be released on exit.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *bankgate.Config, logger *slog.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	shutdownTracing, err := telemetry.InitProvider(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Tracing,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	backend, rdb, err := openSessions(ctx, cfg.Session, logger, a)
	if err != nil {
		return nil, err
	}

	var health func(context.Context) error
	if p, ok := backend.(interface{ Ping(context.Context) error }); ok {
		health = p.Ping
	}

	var throttle *rate.Limiter
	if rdb != nil && cfg.Throttle.Enabled {
		throttle = rate.New(rdb, cfg.Session.RedisPrefix, rate.Config{
			MaxAttempts: cfg.Throttle.MaxAttempts,
			Cooldown:    cfg.Throttle.Cooldown,
			IPThrottle:  cfg.Throttle.IPThrottle,
		})
	}

	var dispatcher *audit.Dispatcher
	if cfg.Audit.Enabled {
		var out io.Writer = os.Stdout
		if cfg.Audit.Output == "stderr" {
			out = os.Stderr
		}
		dispatcher = audit.NewDispatcher(audit.Config{
			Enabled:    true,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
			OnDrop:     m.ObserveAuditDrop,
		}, audit.NewJSONWriterSink(out))
		a.closers = append(a.closers, dispatcher.Close)
	}

	api := gateway.New(cfg.API.BaseURL,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithTracerProvider(telemetry.TracerProvider()),
		gateway.WithRecorder(m),
		gateway.WithLogger(logger),
	)

	srv, err := web.New(web.Options{
		API:           api,
		Sessions:      backend,
		CookieName:    cfg.Server.CookieName,
		SecureCookies: cfg.Server.SecureCookies,
		LoginPath:     cfg.Server.LoginPath,
		Throttle:      throttle,
		Audit:         dispatcher,
		Metrics:       m,
		Gatherer:      reg,
		Health:        health,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	a.handler = srv.Handler()

	ok = true
	return a, nil
}

// openSessions builds the configured session backend and, for Redis backends, returns the
// client it uses. Connections are registered on a for release.
func openSessions(ctx context.Context, cfg bankgate.SessionConfig, logger *slog.Logger, a *app) (session.Backend, *redis.Client, error) {
	switch cfg.Backend {
	case bankgate.SessionBackendMemory:
		return session.NewMemoryStore(), nil, nil

	case bankgate.SessionBackendEmbedded:
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start embedded redis: %w", err)
		}
		a.closers = append(a.closers, mr.Close)
		logger.Info("embedded redis started", "addr", mr.Addr())
		return redisSessions(ctx, &redis.Options{Addr: mr.Addr()}, cfg, a)

	case bankgate.SessionBackendRedis:
		return redisSessions(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg, a)
	}
	return nil, nil, fmt.Errorf("%w: unknown session backend %q", bankgate.ErrInvalidConfig, cfg.Backend)
}

func redisSessions(ctx context.Context, opts *redis.Options, cfg bankgate.SessionConfig, a *app) (session.Backend, *redis.Client, error) {
	rdb := redis.NewClient(opts)
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	store := session.NewStore(rdb, cfg.RedisPrefix, cfg.IdleTTL)
	if err := store.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return store, rdb, nil
}
