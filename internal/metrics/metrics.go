package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync engine counters and histograms, partitioned by chain where it matters.

var (
	// Event source (GraphQL transfer indexer)
	EventSourcePagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "eventsource",
		Name:      "pages_fetched_total",
		Help:      "Total pages fetched from the transfer indexer",
	}, []string{"chain"})

	EventSourceRequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "eventsource",
		Name:      "request_failures_total",
		Help:      "Total failed transfer indexer requests (treated as empty pages)",
	}, []string{"chain"})

	EventSourceOffsetCeilingHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "eventsource",
		Name:      "offset_ceiling_hits_total",
		Help:      "Total page loops stopped by the offset safety ceiling",
	}, []string{"chain"})

	// Chain RPC
	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Total chain RPC calls by method and status",
	}, []string{"chain", "method", "status"})

	RPCFailoversTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "rpc",
		Name:      "failovers_total",
		Help:      "Total endpoint failovers",
	}, []string{"chain"})

	RPCRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "rpc",
		Name:      "rate_limit_waits_total",
		Help:      "Total RPC calls delayed by the rate limiter",
	}, []string{"chain"})

	BalanceFetchRetryPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "rpc",
		Name:      "balance_fetch_retry_passes_total",
		Help:      "Total retry passes over still-missing transactions in batched balance fetches",
	}, []string{"chain"})

	// Sync orchestration
	SyncDaysProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "sync",
		Name:      "days_processed_total",
		Help:      "Total calendar days successfully synced",
	}, []string{"chain", "mode"})

	SyncDaysSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "sync",
		Name:      "days_skipped_total",
		Help:      "Total calendar days skipped due to errors (visible as snapshot gaps)",
	}, []string{"chain", "mode"})

	SyncRowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards",
		Subsystem: "sync",
		Name:      "rows_written_total",
		Help:      "Total rows upserted or inserted by table",
	}, []string{"table"})

	SyncRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rewards",
		Subsystem: "sync",
		Name:      "run_duration_seconds",
		Help:      "Duration of one sync invocation",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	}, []string{"mode"})
)
