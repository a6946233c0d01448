package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mintworker_submissions_total",
			Help: "Total number of marketplace operation submissions",
		},
		[]string{"operation", "outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mintworker_submission_duration_seconds",
			Help:    "End to end duration of one operation submission",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"operation"},
	)

	ProofDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mintworker_proof_duration_seconds",
			Help:    "Duration of delegated proof generation",
			Buckets: []float64{5, 15, 30, 60, 120, 300},
		},
	)

	CatalogWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mintworker_catalog_write_failures_total",
			Help: "Catalog writes that failed and were logged without aborting the operation",
		},
		[]string{"operation"},
	)

	FinalityResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mintworker_finality_resolutions_total",
			Help: "Finality resolutions by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	ExplorerRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mintworker_explorer_request_duration_seconds",
			Help:    "Duration of block explorer lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mintworker_events_published_total",
			Help: "Operation events delivered to the notification sink",
		},
		[]string{"operation"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mintworker_events_failed_total",
			Help: "Operation events the notification sink refused",
		},
		[]string{"operation"},
	)

	NATSConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mintworker_nats_connection_status",
		Help: "NATS connection status (1=connected, 0=disconnected)",
	})
)
