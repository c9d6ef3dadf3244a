package app

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

type captureLogger struct {
	lines []string
}

func (c *captureLogger) Printf(format string, args ...any) {
	c.lines = append(c.lines, format)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("NAV_ADDR", "127.0.0.1:9999")
	t.Setenv("NAV_LOG_SINKS", "console,json")
	t.Setenv("NAV_LOG_JSON_PATH", "/tmp/nav.jsonl")
	t.Setenv("NAV_LOG_LEVEL", "debug")
	t.Setenv("NAV_CELL_SIZE", "16")
	t.Setenv("NAV_STEP_BUDGET", "500")
	t.Setenv("NAV_ENABLE_PPROF", "true")

	cfg := LoadConfig(&captureLogger{})
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	if !cfg.Logging.HasSink(logging.SinkJSON) || cfg.Logging.JSON.FilePath != "/tmp/nav.jsonl" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Logging.MinimumSeverity != logging.SeverityDebug {
		t.Fatalf("expected debug severity, got %v", cfg.Logging.MinimumSeverity)
	}
	if cfg.Navigation.CellSize != 16 || cfg.Navigation.StepBudget != 500 {
		t.Fatalf("unexpected navigation config %+v", cfg.Navigation)
	}
	if !cfg.Observability.EnablePprof {
		t.Fatalf("expected pprof to be enabled")
	}
}

func TestLoadConfigKeepsDefaultsOnInvalidValues(t *testing.T) {
	t.Setenv("NAV_LOG_LEVEL", "shouty")
	t.Setenv("NAV_CELL_SIZE", "-3")
	t.Setenv("NAV_STEP_BUDGET", "many")
	t.Setenv("NAV_ENABLE_PPROF", "perhaps")

	logger := &captureLogger{}
	cfg := LoadConfig(logger)
	defaults := DefaultConfig()
	if cfg.Logging.MinimumSeverity != defaults.Logging.MinimumSeverity {
		t.Fatalf("expected default severity")
	}
	if cfg.Navigation.CellSize != defaults.Navigation.CellSize || cfg.Navigation.StepBudget != 0 {
		t.Fatalf("expected default navigation config, got %+v", cfg.Navigation)
	}
	if cfg.Observability.EnablePprof {
		t.Fatalf("expected pprof to stay disabled")
	}
	if len(logger.lines) != 4 {
		t.Fatalf("expected four warnings, got %d", len(logger.lines))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "events.jsonl")
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	cfg.Logging.EnabledSinks = []string{logging.SinkJSON}
	cfg.Logging.JSON.FilePath = logPath

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not stop after cancel")
	}

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected the json sink to create its file: %v", err)
	}
}

func TestBuildSinksWritesJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "events.jsonl")
	cfg := logging.DefaultConfig()
	cfg.EnabledSinks = []string{logging.SinkJSON}
	cfg.JSON.FilePath = logPath
	cfg.JSON.FlushInterval = 0

	sinks, closers, err := buildSinks(cfg)
	if err != nil {
		t.Fatalf("build sinks: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Name != logging.SinkJSON {
		t.Fatalf("unexpected sinks %+v", sinks)
	}
	if err := sinks[0].Sink.Write(logging.Event{Type: "navigation.graph_built", Agent: "a", Severity: logging.SeverityInfo}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sinks[0].Sink.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, closeFile := range closers {
		closeFile()
	}

	file, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatalf("expected one line")
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(scanner.Text()), &line); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if line["type"] != "navigation.graph_built" || line["severity"] != "info" || !strings.EqualFold(line["agent"].(string), "a") {
		t.Fatalf("unexpected line %v", line)
	}
}
