// Package metrics defines and registers all custom Prometheus metrics for the
// brokerage back-office API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsProcessedTotal counts status events that completed processing successfully.
// Labels:
//   - status: the new order status applied by the event (e.g. "picked_up")
//   - source: the event source reported by the sender (e.g. "driver_app")
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of status events successfully processed.",
	},
	[]string{"status", "source"},
)

// EventsErrorsTotal counts events that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "invalid_transition", "order_not_found", "update_failed")
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of status events that failed processing.",
	},
	[]string{"reason"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long a single event takes to process end-to-end.
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly registered orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of shipment orders registered.",
	},
)

// OrderTransitionsTotal counts status changes made through the API or events.
// Label:
//   - status: the status the order moved to
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of order status transitions, by target status.",
	},
	[]string{"status"},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// LedgerMutationsTotal counts successful ledger edits.
// Label:
//   - op: "add", "update", "remove", "base", "import"
var LedgerMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_mutations_total",
		Help:      "Total number of fee ledger mutations, by operation.",
	},
	[]string{"op"},
)

// LedgerRejectedTotal counts ledger edits refused by validation or lock state.
// Label:
//   - reason: "closed", "no_target", "conflict"
var LedgerRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_rejected_total",
		Help:      "Total number of refused fee ledger mutations, by reason.",
	},
	[]string{"reason"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// SMSQueuedTotal counts SMS jobs handed to the broker.
// Labels:
//   - template: template name
//   - result: "ok" or "error"
var SMSQueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sms_queued_total",
		Help:      "Total number of SMS jobs published, by template and result.",
	},
	[]string{"template", "result"},
)
