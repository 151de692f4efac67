package analytics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink counts events by name and variant.
type MetricsSink struct {
	events *prometheus.CounterVec
}

// NewMetricsSink registers shop_analytics_events_total on reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "analytics",
		Name:      "events_total",
		Help:      "Analytics events reported, by event name and variant.",
	}, []string{"event", "variant"})
	if reg != nil {
		if err := reg.Register(events); err != nil {
			return nil, fmt.Errorf("register analytics metrics: %w", err)
		}
	}
	return &MetricsSink{events: events}, nil
}

// Send increments the counter for the event.
func (m *MetricsSink) Send(_ context.Context, event Event) error {
	m.events.WithLabelValues(event.Name, event.Variant()).Inc()
	return nil
}

// Collector exposes the underlying counter.
func (m *MetricsSink) Collector() prometheus.Collector {
	return m.events
}
