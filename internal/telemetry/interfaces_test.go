package telemetry

import (
	"bytes"
	"log"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		logger := WrapLogger(nil)
		logger.Printf("ignored %d", 42)
	})

	t.Run("forwards to logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := log.New(&buf, "", 0)
		logger := WrapLogger(base)
		logger.Printf("hello %s", "world")
		if got := buf.String(); got != "hello world\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
	})
}

func TestWrapMetrics(t *testing.T) {
	metrics := logging.Metrics{}
	adapter := WrapMetrics(&metrics)

	adapter.Add("path_queries", 2)
	adapter.Store("path_queries", 5)
	adapter.Add("path_queries", 3)

	snapshot := metrics.Snapshot()
	if got := snapshot["path_queries"]; got != 8 {
		t.Fatalf("unexpected metric value: %d", got)
	}

	// Ensure nil metrics do not panic.
	var nilAdapter Metrics = WrapMetrics(nil)
	nilAdapter.Add("ignored", 1)
	nilAdapter.Store("ignored", 1)
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg, "nav")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	metrics.Add("path_found", 2)
	metrics.Add("path_found", 1)
	metrics.Store("graph_navigable_cells", 42)
	Observe(metrics, "path_search", 0.002)

	if got := testutil.ToFloat64(metrics.counters.WithLabelValues("path_found")); got != 3 {
		t.Fatalf("expected counter 3, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.gauges.WithLabelValues("graph_navigable_cells")); got != 42 {
		t.Fatalf("expected gauge 42, got %v", got)
	}
	if count := testutil.CollectAndCount(metrics.durations); count != 1 {
		t.Fatalf("expected one histogram series, got %d", count)
	}

	if _, err := NewPrometheusMetrics(reg, "nav"); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestMultiForwardsToEverySink(t *testing.T) {
	var first, second logging.Metrics
	reg := prometheus.NewRegistry()
	prom, err := NewPrometheusMetrics(reg, "multi")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	fanout := Multi(WrapMetrics(&first), nil, WrapMetrics(&second), prom)

	fanout.Add("path_queries", 4)
	fanout.Store("graph_jump_links", 7)
	Observe(fanout, "graph_build", 0.01)

	for name, m := range map[string]*logging.Metrics{"first": &first, "second": &second} {
		snapshot := m.Snapshot()
		if snapshot["path_queries"] != 4 || snapshot["graph_jump_links"] != 7 {
			t.Fatalf("%s: unexpected snapshot %v", name, snapshot)
		}
	}
	if count := testutil.CollectAndCount(prom.durations); count != 1 {
		t.Fatalf("expected the observation to reach prometheus, got %d series", count)
	}
}
