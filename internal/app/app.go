package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
	servernet "github.com/RomanSolomatin/2d-platformer-pathfinding/internal/net"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/observability"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
	loggingSinks "github.com/RomanSolomatin/2d-platformer-pathfinding/logging/sinks"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	Logger        telemetry.Logger
	Addr          string
	Logging       logging.Config
	Navigation    navsystem.Config
	Observability observability.Config
	// Registry receives the Prometheus collectors. Nil creates a private one.
	Registry *prometheus.Registry
}

func DefaultConfig() Config {
	return Config{
		Addr:    ":8080",
		Logging: logging.DefaultConfig(),
		Navigation: navsystem.Config{
			CellSize:    navsystem.DefaultCellSize,
			AnchorDepth: navsystem.DefaultAnchorDepth,
		},
	}
}

// LoadConfig overlays NAV_* environment variables on DefaultConfig. Invalid
// values are reported through logger and leave the default in place.
func LoadConfig(logger telemetry.Logger) Config {
	cfg := DefaultConfig()
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	cfg.Logger = logger

	if raw := os.Getenv("NAV_ADDR"); raw != "" {
		cfg.Addr = raw
	}
	if raw := os.Getenv("NAV_LOG_SINKS"); raw != "" {
		cfg.Logging.EnabledSinks = logging.ParseSinks(raw)
	}
	if raw := os.Getenv("NAV_LOG_JSON_PATH"); raw != "" {
		cfg.Logging.JSON.FilePath = raw
	}
	if raw := os.Getenv("NAV_LOG_LEVEL"); raw != "" {
		if value, err := logging.ParseSeverity(raw); err == nil {
			cfg.Logging.MinimumSeverity = value
		} else {
			logger.Printf("invalid NAV_LOG_LEVEL=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("NAV_CELL_SIZE"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.Navigation.CellSize = value
		} else {
			logger.Printf("invalid NAV_CELL_SIZE=%q", raw)
		}
	}
	if raw := os.Getenv("NAV_STEP_BUDGET"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.Navigation.StepBudget = value
		} else {
			logger.Printf("invalid NAV_STEP_BUDGET=%q", raw)
		}
	}
	if raw := os.Getenv("NAV_ENABLE_PPROF"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Observability.EnablePprof = value
		} else {
			logger.Printf("invalid NAV_ENABLE_PPROF=%q: %v", raw, err)
		}
	}
	return cfg
}

// Run serves the navigation API until ctx is canceled, then shuts the
// server down and flushes the logging router.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	sinks, closers, err := buildSinks(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() {
		for _, closeFile := range closers {
			closeFile()
		}
	}()

	router, err := logging.NewRouter(nil, cfg.Logging, sinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	prom, err := telemetry.NewPrometheusMetrics(registry, cfg.Observability.Namespace())
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	diagnostics := &logging.Metrics{}

	navCfg := cfg.Navigation
	navCfg.Publisher = router
	navCfg.Metrics = telemetry.Multi(telemetry.WrapMetrics(diagnostics), prom)

	handler := servernet.NewHTTPHandler(servernet.HTTPHandlerConfig{
		Logger:        telemetryLogger,
		Observability: cfg.Observability,
		System:        navCfg,
		Metrics:       diagnostics,
		Router:        router,
		Gatherer:      registry,
	})

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		telemetryLogger.Printf("server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func buildSinks(cfg logging.Config) ([]logging.NamedSink, []func(), error) {
	var sinks []logging.NamedSink
	var closers []func()
	if cfg.HasSink(logging.SinkConsole) {
		sinks = append(sinks, logging.NamedSink{Name: logging.SinkConsole, Sink: loggingSinks.NewConsoleSink(os.Stdout, cfg.Console)})
	}
	if cfg.HasSink(logging.SinkJSON) {
		if cfg.JSON.FilePath == "" {
			sinks = append(sinks, logging.NamedSink{Name: logging.SinkJSON, Sink: loggingSinks.NewJSON(os.Stdout, cfg.JSON.FlushInterval)})
		} else {
			file, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("open json log %s: %w", cfg.JSON.FilePath, err)
			}
			closers = append(closers, func() { file.Close() })
			sinks = append(sinks, logging.NamedSink{Name: logging.SinkJSON, Sink: loggingSinks.NewJSON(file, cfg.JSON.FlushInterval)})
		}
	}
	return sinks, closers, nil
}
