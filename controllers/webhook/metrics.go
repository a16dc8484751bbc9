package webhook

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Webhook outcomes reported in the events counter
const (
	OutcomeProcessed        = "processed"
	OutcomeDuplicate        = "duplicate"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeInvalidPayload   = "invalid_payload"
	OutcomeFailed           = "failed"
)

// Metrics exports webhook receiver counters to Prometheus
type Metrics struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the receiver metrics with reg, or the default
// registerer when reg is nil
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "blaaiz_webhooks"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Webhook deliveries by kind and outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "handling_duration_seconds",
		Help:      "Time spent handling a webhook delivery.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	if err := reg.Register(events); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register webhook events metric: %w", err)
		}
		events = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(duration); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register webhook duration metric: %w", err)
		}
		duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	return &Metrics{events: events, duration: duration}, nil
}

func (m *Metrics) record(kind, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}
