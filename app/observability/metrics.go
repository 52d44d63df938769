package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records client-side operation metrics.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
	RecordAPIRequest(ctx context.Context, endpoint string, status string, d time.Duration)
	RecordPoll(ctx context.Context, outcome string)
	RecordDroppedTick(ctx context.Context)
}

// PrometheusMetrics implements Metrics with client_golang collectors.
type PrometheusMetrics struct {
	operations   *prometheus.CounterVec
	opDurations  *prometheus.HistogramVec
	apiRequests  *prometheus.CounterVec
	apiDurations *prometheus.HistogramVec
	polls        *prometheus.CounterVec
	droppedTicks prometheus.Counter
}

const namespace = "cuwais_portal"

// NewPrometheusMetrics registers the portal collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"service", "operation", "outcome"}),
		opDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Backend API requests by endpoint and status class.",
		}, []string{"endpoint", "status"}),
		apiDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_polls_total",
			Help:      "Leaderboard refreshes by outcome.",
		}, []string{"outcome"}),
		droppedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_dropped_ticks_total",
			Help:      "Poll ticks skipped because a refresh was still in flight.",
		}),
	}

	reg.MustRegister(m.operations, m.opDurations, m.apiRequests, m.apiDurations, m.polls, m.droppedTicks)
	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "success").Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(service, operation, "failure").Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.opDurations.WithLabelValues(service, operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordAPIRequest(_ context.Context, endpoint, status string, d time.Duration) {
	m.apiRequests.WithLabelValues(endpoint, status).Inc()
	m.apiDurations.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordPoll(_ context.Context, outcome string) {
	m.polls.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordDroppedTick(_ context.Context) {
	m.droppedTicks.Inc()
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoopMetrics) RecordAPIRequest(context.Context, string, string, time.Duration)        {}
func (NoopMetrics) RecordPoll(context.Context, string)                                     {}
func (NoopMetrics) RecordDroppedTick(context.Context)                                      {}
