// Package metrics defines and registers all custom Prometheus metrics for the
// AI tools platform API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aitools"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Labels:
//   - client_kind: "api" or "browser"
//   - outcome: "success", "invalid_credentials", "unavailable" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by client kind and outcome.",
	},
	[]string{"client_kind", "outcome"},
)

// LogoutsTotal counts successful logouts.
// Label:
//   - credential: "token" or "session"
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of successful logouts, by credential kind.",
	},
	[]string{"credential"},
)

// AuthorizationDeniedTotal counts requests rejected by the role policy.
// Label:
//   - action: the denied action (e.g. "tool:delete")
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the role policy, by action.",
	},
	[]string{"action"},
)

// CSRFRejectedTotal counts session requests rejected for a missing or wrong CSRF token.
var CSRFRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_rejected_total",
		Help:      "Total number of session requests rejected by the CSRF check.",
	},
)

// LoginDuration measures how long a login takes, including password hashing.
// Label:
//   - client_kind: "api" or "browser"
var LoginDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests from bind to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"client_kind"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ToolsCreatedTotal counts newly created catalog tools.
// Label:
//   - role: role of the creator
var ToolsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tools_created_total",
		Help:      "Total number of catalog tools created, by creator role.",
	},
	[]string{"role"},
)
