// Package metrics exposes Prometheus instrumentation for the client core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreWrites counts field replacements in the shared store.
	StoreWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learnloop",
		Name:      "store_writes_total",
		Help:      "Field replacements applied to the shared state store.",
	}, []string{"field"})

	// StoreNotifications counts subscriber callbacks fired per field.
	StoreNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learnloop",
		Name:      "store_notifications_total",
		Help:      "Subscriber notifications delivered, by field.",
	}, []string{"field"})

	// OptimisticCreates counts optimistic create outcomes per entity kind.
	OptimisticCreates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learnloop",
		Name:      "optimistic_creates_total",
		Help:      "Optimistic create operations by kind and outcome (confirmed, rolled_back, reinserted).",
	}, []string{"kind", "outcome"})

	// GatewayRequests counts remote gateway calls per kind, method and code.
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learnloop",
		Name:      "gateway_requests_total",
		Help:      "Remote gateway calls by entity kind, method and status code.",
	}, []string{"kind", "method", "code"})

	// GatewayLatency observes remote gateway call durations.
	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "learnloop",
		Name:      "gateway_request_seconds",
		Help:      "Remote gateway call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "method"})

	// FeedRefreshes counts collection refreshes and singleflight shares.
	FeedRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "learnloop",
		Name:      "feed_refreshes_total",
		Help:      "Collection refreshes by field and result (loaded, shared, throttled, failed).",
	}, []string{"field", "result"})
)
