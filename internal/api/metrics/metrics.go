// Package metrics defines and registers the custom Prometheus metrics of the
// Quantiva dashboard. Metrics live on the default registry via promauto and
// are exposed together with the echoprometheus request metrics on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quantiva"

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthOperationsTotal counts sign-in, sign-up and sign-out calls.
// Labels:
//   - op: "sign_in", "sign_up" or "sign_out"
//   - result: "ok", "invalid", "rejected", "pending", "not_ready" or "error"
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of session mutating operations, by outcome.",
	},
	[]string{"op", "result"},
)

// AuthOperationDuration measures sign-in and sign-up including the simulated
// identity call.
// Label:
//   - op: "sign_in" or "sign_up"
var AuthOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_operation_duration_seconds",
		Help:      "Duration of sign-in and sign-up operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// SessionRestoresTotal counts startup restores.
// Label:
//   - phase: the phase the session ended in ("anonymous" or "authenticated")
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of startup session restores, by resulting phase.",
	},
	[]string{"phase"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - decision: "wait", "public" or "protected"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"decision"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatMessagesTotal counts messages accepted from the user.
var ChatMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages sent by the user.",
	},
)
