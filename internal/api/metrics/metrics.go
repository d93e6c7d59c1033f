// Package metrics defines and registers the custom Prometheus metrics of the
// blog API. HTTP request metrics come from echoprometheus; everything here is
// about authentication, authorization and the audit pipeline.
//
// All metrics are registered with the default registry through promauto, so
// importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "invalid_input" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict", "invalid_input" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// BearerChecksTotal counts how the bearer gate resolved a request.
// Labels:
//   - mode: "required" or "optional"
//   - result: "authenticated", "anonymous", "rejected" or "error"
var BearerChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bearer_checks_total",
		Help:      "Total number of bearer token checks, by gate mode and result.",
	},
	[]string{"mode", "result"},
)

// ── Authorization ────────────────────────────────────────────────────────────

// AccessDeniedTotal counts policy denials.
// Labels:
//   - operation: the denied operation (e.g. "update_post")
//   - reason: the decision reason (e.g. "forbidden", "hidden")
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authorization denials, by operation and reason.",
	},
	[]string{"operation", "reason"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
)

// ── Audit pipeline ───────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events persisted by the dispatcher.
// Labels:
//   - kind: the audit event kind (e.g. "login_failure")
//   - outcome: "stored" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events handled by the dispatcher.",
	},
	[]string{"kind", "outcome"},
)

// AuditDroppedTotal counts audit events discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped on a full worker queue.",
	},
)

// AuditQueueDepth tracks pending audit events per worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long persisting one audit event takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit event write.",
		Buckets:   prometheus.DefBuckets,
	},
)
