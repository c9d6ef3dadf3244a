package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exports navigation telemetry on a Prometheus registry.
// Keys become the value of the "key" label.
type PrometheusMetrics struct {
	counters  *prometheus.CounterVec
	gauges    *prometheus.GaugeVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetrics registers its collectors on reg. Passing nil uses the
// default registerer.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Navigation counters by key",
		}, []string{"key"}),
		gauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Most recent navigation gauge values by key",
		}, []string{"key"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Navigation operation latency by key",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"key"}),
	}
	for _, collector := range []prometheus.Collector{m.counters, m.gauges, m.durations} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) Add(key string, delta uint64) {
	if m == nil || key == "" {
		return
	}
	m.counters.WithLabelValues(key).Add(float64(delta))
}

func (m *PrometheusMetrics) Store(key string, value uint64) {
	if m == nil || key == "" {
		return
	}
	m.gauges.WithLabelValues(key).Set(float64(value))
}

func (m *PrometheusMetrics) Observe(key string, seconds float64) {
	if m == nil || key == "" {
		return
	}
	m.durations.WithLabelValues(key).Observe(seconds)
}
