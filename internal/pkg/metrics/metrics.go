// Package metrics defines and registers all custom Prometheus metrics for the
// invoicing gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the router under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invoicer"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts sessions started by a successful login.
var LoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of sessions started.",
	},
)

// LogoutsTotal counts sessions that ended.
// Label:
//   - reason: "explicit" (user logged out) or "expired" (expiry timer fired)
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logouts_total",
		Help:      "Total number of sessions ended, by reason.",
	},
	[]string{"reason"},
)

// SessionRestoresTotal counts startup rehydration decisions.
// Label:
//   - result: "restored" or "discarded" (expired, corrupt or empty)
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of persisted sessions read at startup, by result.",
	},
	[]string{"result"},
)

// SessionStoreErrorsTotal counts failed reads and writes against the durable store.
// Label:
//   - op: "read", "write" or "delete"
var SessionStoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_store_errors_total",
		Help:      "Total number of failed session store operations.",
	},
	[]string{"op"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the remote REST backend.
// Labels:
//   - operation: client method name (e.g. "login", "list_invoices")
//   - outcome: "ok", "auth_error", "server_error" or "transport_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the REST backend.",
	},
	[]string{"operation", "outcome"},
)

// BackendRequestDuration measures the round trip of a backend call.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
