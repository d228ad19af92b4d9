package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "changetrack"

// Metrics holds the aggregate write metrics. Each instance registers its
// collectors on the registry it was built with.
type Metrics struct {
	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec
}

// NewMetrics registers the aggregate collectors on reg. A nil reg falls
// back to the default prometheus registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		aggregateOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "operations_total",
			Help:      "Aggregate write operations by operation and status.",
		}, []string{"operation", "status"}),
		aggregateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "operation_duration_seconds",
			Help:      "Aggregate write latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation", "status"}),
		aggregateConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "conflicts_total",
			Help:      "Aggregate writes rejected by the optimistic version check.",
		}, []string{"operation"}),
		aggregateRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "retryable_total",
			Help:      "Aggregate writes that failed with a retryable error.",
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveAggregateOperation(operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	operation = labelOrUnknown(operation)
	status = labelOrUnknown(status)
	m.aggregateOps.WithLabelValues(operation, status).Inc()
	m.aggregateLatency.WithLabelValues(operation, status).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(operation string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(labelOrUnknown(operation)).Inc()
}

func (m *Metrics) IncAggregateRetry(operation string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(labelOrUnknown(operation)).Inc()
}

func labelOrUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
