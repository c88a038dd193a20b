// Package metrics collects submission and gateway metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector defines the interface for collecting card fields metrics
type MetricsCollector interface {
	// Submission metrics
	RecordSubmission(path, result string)

	// Gateway metrics
	RecordGatewayDuration(operation string, duration time.Duration)

	// Error metrics
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordSubmission(string, string)             {}
func (n *NoopMetricsCollector) RecordGatewayDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordError(string, string)                  {}

// PrometheusCollector records metrics into a prometheus registry.
type PrometheusCollector struct {
	submissions *prometheus.CounterVec
	gateway     *prometheus.HistogramVec
	errors      *prometheus.CounterVec
}

// NewPrometheusCollector registers the card fields collectors on reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "card_fields",
				Name:      "submissions_total",
				Help:      "Total number of card fields submissions by path and result.",
			},
			[]string{"path", "result"},
		),
		gateway: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "card_fields",
				Name:      "gateway_duration_seconds",
				Help:      "Duration of vault and order gateway calls.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
			},
			[]string{"operation"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "card_fields",
				Name:      "errors_total",
				Help:      "Total number of card fields errors by operation and type.",
			},
			[]string{"operation", "type"},
		),
	}
	reg.MustRegister(c.submissions, c.gateway, c.errors)
	return c
}

func (c *PrometheusCollector) RecordSubmission(path, result string) {
	c.submissions.WithLabelValues(path, result).Inc()
}

func (c *PrometheusCollector) RecordGatewayDuration(operation string, duration time.Duration) {
	c.gateway.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *PrometheusCollector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}
