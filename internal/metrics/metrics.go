package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cargo",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cargo",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	RevisionComparisons = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cargo",
		Name:      "revision_comparisons_total",
		Help:      "Load plan revision comparison runs",
	})

	ChangesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cargo",
		Name:      "load_plan_changes_total",
		Help:      "Load plan changes detected by type",
	}, []string{"change_type"})

	OrphanedItems = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cargo",
		Name:      "orphaned_items_total",
		Help:      "Load plan items excluded from comparison for missing serial numbers",
	})

	ULDStatusUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cargo",
		Name:      "uld_status_updates_total",
		Help:      "ULD status updates recorded",
	})

	ULDStatusBackfills = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cargo",
		Name:      "uld_status_backfills_total",
		Help:      "ULD status entries synthesized to fill skipped stages",
	})
)
