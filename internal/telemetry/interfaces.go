package telemetry

import (
	"log"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

// Logger is the printf-style logger used by the transport and app layers.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger to the Logger interface.
func WrapLogger(logger *log.Logger) Logger {
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *log.Logger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// Metrics receives navigation counters and gauges.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// WrapMetrics adapts the in-memory diagnostics counters into the Metrics interface.
func WrapMetrics(metrics *logging.Metrics) Metrics {
	return &metricsAdapter{metrics: metrics}
}

type metricsAdapter struct {
	metrics *logging.Metrics
}

func (m *metricsAdapter) Add(key string, delta uint64) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.TelemetryAdd(key, delta)
}

func (m *metricsAdapter) Store(key string, value uint64) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.TelemetryStore(key, value)
}

// Multi forwards every update to each non-nil sink.
func Multi(metrics ...Metrics) Metrics {
	filtered := make(multiMetrics, 0, len(metrics))
	for _, m := range metrics {
		if m != nil {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

type multiMetrics []Metrics

func (m multiMetrics) Add(key string, delta uint64) {
	for _, metrics := range m {
		metrics.Add(key, delta)
	}
}

func (m multiMetrics) Store(key string, value uint64) {
	for _, metrics := range m {
		metrics.Store(key, value)
	}
}

func (m multiMetrics) Observe(key string, seconds float64) {
	for _, metrics := range m {
		Observe(metrics, key, seconds)
	}
}

// Observer is implemented by metrics sinks that can record latency
// distributions.
type Observer interface {
	Observe(key string, seconds float64)
}

// Observe records a duration when metrics supports it and is a no-op
// otherwise.
func Observe(metrics Metrics, key string, seconds float64) {
	if observer, ok := metrics.(Observer); ok {
		observer.Observe(key, seconds)
	}
}
