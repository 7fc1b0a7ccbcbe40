package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novachat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Business metrics
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "novachat_sessions_started_total",
			Help: "Total chat sessions created or resumed",
		},
	)

	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novachat_sessions_ended_total",
			Help: "Total chat sessions concluded",
		},
		[]string{"status"}, // "resolved" or "expired"
	)

	MessagesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novachat_messages_total",
			Help: "Total messages stored",
		},
		[]string{"sender"},
	)

	AIRepliesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "novachat_ai_replies_total",
			Help: "Total AI replies delivered to visitors",
		},
	)

	AIRepliesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novachat_ai_replies_discarded_total",
			Help: "AI responses dropped before delivery",
		},
		[]string{"reason"}, // "empty", "missing_credential", "stale_session", "error"
	)

	HandoffsRequested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "novachat_handoffs_requested_total",
			Help: "Total human-handoff requests from visitors",
		},
	)

	ActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "novachat_active_subscriptions",
			Help: "Currently open realtime subscriptions",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "novachat_rate_limit_hits_total",
			Help: "Requests rejected by the edge rate limiter",
		},
	)
)
