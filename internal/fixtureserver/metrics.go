package fixtureserver

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "entity_factory"

// Metrics 统计造数请求和生成的实体数，使用独立的 registry。
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	entities *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Fixture requests by operation, factory and result.",
		}, []string{"op", "factory", "result"}),
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "entities_total",
			Help:      "Entities returned by fixture requests, nested ones excluded.",
		}, []string{"op", "factory"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Fixture request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.requests, m.entities, m.latency)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// observe 对 nil Metrics 是空操作。
func (m *Metrics) observe(op, factory string, n int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.requests.WithLabelValues(op, factory, result).Inc()
	if err == nil {
		m.entities.WithLabelValues(op, factory).Add(float64(n))
	}
	m.latency.WithLabelValues(op).Observe(elapsed.Seconds())
}
