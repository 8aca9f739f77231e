// Package metrics defines the custom Prometheus metrics shared by the
// gateway and the backend services. HTTP request metrics come from the
// echoprometheus middleware; everything here is domain specific.
//
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shopgrid"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login outcomes.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "conflict", "invalid_credentials", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// ── Queue metrics ─────────────────────────────────────────────────────────────

// QueueEventsPublishedTotal counts user-created publish attempts.
// Label:
//   - result: "ok" or "error"
var QueueEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_events_published_total",
		Help:      "Total number of events published to the user queue, by result.",
	},
	[]string{"result"},
)

// QueueEventsProcessedTotal counts consumer outcomes.
// Label:
//   - result: "ok", "duplicate", "malformed" or "error"
var QueueEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_events_processed_total",
		Help:      "Total number of user queue events handled by the consumer, by result.",
	},
	[]string{"result"},
)

// QueueEventsReclaimedTotal counts pending entries taken over from idle consumers.
var QueueEventsReclaimedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_events_reclaimed_total",
		Help:      "Total number of stale pending stream entries reclaimed for redelivery.",
	},
)

// QueueDepth tracks the number of deliveries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var QueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of deliveries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// QueueProcessingDuration measures handling time of a single delivery.
// Label:
//   - result: same values as QueueEventsProcessedTotal
var QueueProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "queue_processing_duration_seconds",
		Help:      "Duration of user queue event processing from dequeue to acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// ProxyRequestsTotal counts proxied requests.
// Labels:
//   - upstream: "auth", "user" or "shop"
//   - code: upstream status code, or "502" on transport failure
var ProxyRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proxy_requests_total",
		Help:      "Total number of requests proxied by the gateway, by upstream and status.",
	},
	[]string{"upstream", "code"},
)

// ProxyDuration measures upstream round-trip time.
var ProxyDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "proxy_duration_seconds",
		Help:      "Upstream round-trip latency observed by the gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"upstream"},
)

// ── Shop metrics ──────────────────────────────────────────────────────────────

// ShopsCreatedTotal counts newly created shops.
var ShopsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shops_created_total",
		Help:      "Total number of shops created.",
	},
)
