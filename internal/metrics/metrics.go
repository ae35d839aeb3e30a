// Package metrics defines and registers all custom Prometheus metrics for the
// SkillLink client. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skilllink"

// APIRequestsTotal counts outgoing API requests by endpoint and outcome.
// Labels:
//   - endpoint: the logical operation (e.g. "login", "get_workers")
//   - result: "ok", "error" or "unauthorized"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of outgoing API requests, by endpoint and result.",
	},
	[]string{"endpoint", "result"},
)

// TokenRefreshTotal counts access-token refresh attempts.
// Label:
//   - result: "ok" or "error"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access-token refresh attempts, by result.",
	},
	[]string{"result"},
)

// RequestRetriesTotal counts retransmissions after a successful refresh.
// Each original request contributes at most one retry.
var RequestRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_retries_total",
		Help:      "Total number of requests retransmitted after a 401-triggered refresh.",
	},
)

// SessionInvalidationsTotal counts escalations to the session-invalidated state.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of times stored credentials were purged after a failed refresh.",
	},
)

// MessagesSentTotal counts messages appended to the local ledgers.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages written to the local ledgers.",
	},
)
