package service

import "time"

// Metrics defines the interface for collecting business metrics.
// This abstraction keeps the domain independent of the monitoring implementation (e.g., Prometheus).
type Metrics interface {
	// RecordTokenIssue records one token issuance attempt.
	RecordTokenIssue(success bool)

	// RecordTokenVerify records a verification outcome; result is "ok" or an error code.
	RecordTokenVerify(result string)

	// RecordGateDecision records an authorization gate outcome.
	RecordGateDecision(result string)

	// RecordLogin records a login attempt outcome.
	RecordLogin(result string)

	// RecordRateLimitHit records an event when a rate limit is triggered.
	RecordRateLimitHit(scope string)

	// RecordDBQuery records the duration of a database query.
	RecordDBQuery(operation string, duration time.Duration)
}

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) RecordTokenIssue(bool)               {}
func (NoopMetrics) RecordTokenVerify(string)            {}
func (NoopMetrics) RecordGateDecision(string)           {}
func (NoopMetrics) RecordLogin(string)                  {}
func (NoopMetrics) RecordRateLimitHit(string)           {}
func (NoopMetrics) RecordDBQuery(string, time.Duration) {}
