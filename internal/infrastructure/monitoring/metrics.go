// Package monitoring wires zap logging, Prometheus metrics and OpenTelemetry tracing.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artsapp/builder/internal/domain/service"
)

var _ service.Metrics = (*Metrics)(nil)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
	HTTPInFlight       prometheus.Gauge
	UpstreamCalls      *prometheus.CounterVec
	UpstreamLatency    *prometheus.HistogramVec
	PremiseSaves       *prometheus.CounterVec
	RevisionBuilds     *prometheus.CounterVec
	RevisionBuildTime  prometheus.Histogram
	BestEffortFailures *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg uses
// the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "builder_http_requests_total",
				Help: "Total number of HTTP requests served.",
			},
			[]string{"route", "method", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "builder_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "builder_http_requests_in_flight",
			Help: "Number of HTTP requests being served.",
		}),
		UpstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "builder_keyapi_calls_total",
				Help: "Total number of key API calls.",
			},
			[]string{"endpoint", "method", "status"},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "builder_keyapi_call_duration_seconds",
				Help:    "Latency of key API calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		PremiseSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "builder_premise_saves_total",
				Help: "Total number of logical premise saves.",
			},
			[]string{"changed", "result"},
		),
		RevisionBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "builder_revision_builds_total",
				Help: "Total number of build-key saves.",
			},
			[]string{"result", "error_code"},
		),
		RevisionBuildTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "builder_revision_build_duration_seconds",
			Help:    "Latency of build-key saves.",
			Buckets: prometheus.DefBuckets,
		}),
		BestEffortFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "builder_best_effort_failures_total",
				Help: "Total number of failed best-effort calls.",
			},
			[]string{"operation"},
		),
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordUpstreamCall records one key API call. Status 0 means no response.
func (m *Metrics) RecordUpstreamCall(endpoint, method string, status int, duration time.Duration) {
	m.UpstreamCalls.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.UpstreamLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (m *Metrics) RecordPremiseSave(changed bool, success bool) {
	m.PremiseSaves.WithLabelValues(strconv.FormatBool(changed), result(success)).Inc()
}

func (m *Metrics) RecordRevisionBuild(success bool, errorCode string, duration time.Duration) {
	m.RevisionBuilds.WithLabelValues(result(success), errorCode).Inc()
	m.RevisionBuildTime.Observe(duration.Seconds())
}

func (m *Metrics) RecordBestEffortFailure(operation string) {
	m.BestEffortFailures.WithLabelValues(operation).Inc()
}

// ActiveRequestsInc and ActiveRequestsDec track in-flight HTTP requests
func (m *Metrics) ActiveRequestsInc() { m.HTTPInFlight.Inc() }
func (m *Metrics) ActiveRequestsDec() { m.HTTPInFlight.Dec() }

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}
