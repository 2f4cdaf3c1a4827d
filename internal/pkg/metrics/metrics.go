// Package metrics defines and registers all custom Prometheus metrics for the
// task list API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; /metrics exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasklist"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected bearer tokens. Clients always see the same
// 401; the reason is only recorded here.
// Label:
//   - reason: "missing_token", "invalid_token", "account_missing", "account_inactive", "lookup_failed"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the identity resolver, by reason.",
	},
	[]string{"reason"},
)

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "failed" or "locked"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// AvatarUploadsTotal counts stored avatars.
// Label:
//   - ext: stored file extension ("png", "jpg", "jpeg")
var AvatarUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "avatar_uploads_total",
		Help:      "Total number of avatar images stored, by extension.",
	},
	[]string{"ext"},
)

// ── Cleanup metrics ───────────────────────────────────────────────────────────

// CleanupQueueDepth tracks the number of avatar cleanup jobs waiting per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cleanup_queue_depth",
		Help:      "Current number of avatar cleanup jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// CleanupErrorsTotal counts cleanup jobs that failed.
var CleanupErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cleanup_errors_total",
		Help:      "Total number of avatar cleanup jobs that failed.",
	},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/tasks/:id")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route", "status"},
)
