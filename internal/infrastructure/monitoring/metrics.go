// Package monitoring provides the zap logger, Prometheus metrics and
// OpenTelemetry tracing used by the server.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/turtacn/coursehub/internal/domain/service"
)

// Metrics manages the Prometheus metrics and implements service.Metrics.
type Metrics struct {
	TokensIssued       *prometheus.CounterVec
	TokenVerifications *prometheus.CounterVec
	GateDecisions      *prometheus.CounterVec
	Logins             *prometheus.CounterVec
	RateLimitHits      *prometheus.CounterVec
	DBQueryLatency     *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
	HTTPActive         *prometheus.GaugeVec
}

var _ service.Metrics = (*Metrics)(nil)

// NewMetrics creates the metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TokensIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_tokens_issued_total",
				Help: "Total number of access tokens issued.",
			},
			[]string{"result"},
		),
		TokenVerifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_token_verifications_total",
				Help: "Token verifications by result.",
			},
			[]string{"result"},
		),
		GateDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_gate_decisions_total",
				Help: "Privileged access decisions by result.",
			},
			[]string{"result"},
		),
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_logins_total",
				Help: "Login attempts by result.",
			},
			[]string{"result"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_rate_limit_hits_total",
				Help: "Total number of rate limit hits.",
			},
			[]string{"scope"},
		),
		DBQueryLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coursehub_db_query_duration_seconds",
				Help:    "Latency of database queries.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_http_requests_total",
				Help: "HTTP requests by route, method and status.",
			},
			[]string{"path", "method", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coursehub_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		HTTPActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coursehub_http_active_requests",
				Help: "Requests currently being served.",
			},
			[]string{"path", "method"},
		),
	}
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (m *Metrics) RecordTokenIssue(success bool) {
	m.TokensIssued.WithLabelValues(resultLabel(success)).Inc()
}

func (m *Metrics) RecordTokenVerify(result string) {
	m.TokenVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordGateDecision(result string) {
	m.GateDecisions.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordLogin(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(scope string) {
	m.RateLimitHits.WithLabelValues(scope).Inc()
}

func (m *Metrics) RecordDBQuery(operation string, duration time.Duration) {
	m.DBQueryLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) ActiveRequestsInc(path, method string) {
	m.HTTPActive.WithLabelValues(path, method).Inc()
}

func (m *Metrics) ActiveRequestsDec(path, method string) {
	m.HTTPActive.WithLabelValues(path, method).Dec()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(path, method string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(path, method).Observe(duration.Seconds())
}
