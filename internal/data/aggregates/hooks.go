package aggregates

import (
	"time"

	"github.com/yungbote/changetrack/internal/observability"
)

// Hooks receives one ObserveOperation per aggregate write, plus a counter
// signal when the write lost an optimistic version check or hit a
// retryable storage error.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks reports aggregate writes to prometheus metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(name, status, dur)
}

func (h metricsHooks) IncConflict(name string) { h.metrics.IncAggregateConflict(name) }
func (h metricsHooks) IncRetry(name string)    { h.metrics.IncAggregateRetry(name) }
