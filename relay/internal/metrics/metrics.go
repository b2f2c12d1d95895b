package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Intake metrics
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotwire_relay_deliveries_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"source", "outcome"},
	)

	DeliveryBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lotwire_relay_delivery_bytes_total",
			Help: "Total bytes of webhook payloads received",
		},
	)

	DuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lotwire_relay_duplicates_total",
			Help: "Deliveries short-circuited by the idempotency cache",
		},
	)

	SignatureFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lotwire_relay_signature_failures_total",
			Help: "Deliveries rejected for a bad or missing signature",
		},
	)

	// Pipeline metrics
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lotwire_relay_pipeline_duration_seconds",
			Help:    "Duration of the classify/fingerprint/stamp pipeline in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotwire_relay_classified_total",
			Help: "Classified deliveries by category and tag",
		},
		[]string{"category", "tag"},
	)

	RejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotwire_relay_rejections_total",
			Help: "Rejected deliveries by validation code",
		},
		[]string{"code"},
	)

	DegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lotwire_relay_degraded_total",
			Help: "Deliveries that survived an internal pipeline failure",
		},
	)

	// Downstream metrics
	DestinationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lotwire_relay_destination_duration_seconds",
			Help:    "Duration of destination forwards in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DestinationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lotwire_relay_destination_errors_total",
			Help: "Total number of failed destination forwards",
		},
	)

	DLQTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lotwire_relay_dlq_total",
			Help: "Deliveries routed to the dead-letter queue by reason",
		},
		[]string{"reason"},
	)

	CacheErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lotwire_relay_cache_errors_total",
			Help: "Idempotency cache failures (processing fails open)",
		},
	)
)
