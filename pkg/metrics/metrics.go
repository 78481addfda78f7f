// Package metrics provides Prometheus metrics for the clover service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal tracks company resolutions by outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "resolution",
			Name:      "resolutions_total",
			Help:      "Total number of company resolutions by outcome",
		},
		[]string{"tenant_id", "outcome"},
	)

	// ResolutionDuration tracks resolution duration in seconds
	ResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "resolution",
			Name:      "duration_seconds",
			Help:      "Duration of single-contact resolutions in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"tenant_id"},
	)

	// ResolutionCandidates tracks the candidate set size per resolution
	ResolutionCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "resolution",
			Name:      "candidates",
			Help:      "Number of scored candidates per resolution",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// BulkJobsTotal tracks bulk jobs by operation type and terminal status
	BulkJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "jobs",
			Name:      "total",
			Help:      "Total number of bulk jobs by operation type and status",
		},
		[]string{"tenant_id", "operation_type", "status"},
	)

	// BulkJobItemsProcessed tracks processed items by outcome
	BulkJobItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "jobs",
			Name:      "items_processed_total",
			Help:      "Total number of bulk job items processed by outcome",
		},
		[]string{"operation_type", "outcome"},
	)

	// BulkJobsInFlight tracks jobs currently running
	BulkJobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clover",
			Subsystem: "jobs",
			Name:      "in_flight",
			Help:      "Number of bulk jobs currently running",
		},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)
)

// RecordResolution records a single resolution metric
func RecordResolution(tenantID, outcome string, durationSeconds float64, candidates int) {
	ResolutionsTotal.WithLabelValues(tenantID, outcome).Inc()
	ResolutionDuration.WithLabelValues(tenantID).Observe(durationSeconds)
	ResolutionCandidates.Observe(float64(candidates))
}

// RecordJobItem records a processed bulk job item
func RecordJobItem(operationType, outcome string) {
	BulkJobItemsProcessed.WithLabelValues(operationType, outcome).Inc()
}

// RecordJobFinished records a bulk job reaching a terminal status
func RecordJobFinished(tenantID, operationType, status string) {
	BulkJobsTotal.WithLabelValues(tenantID, operationType, status).Inc()
	BulkJobsInFlight.Dec()
}

// RecordJobStarted records a bulk job starting
func RecordJobStarted() {
	BulkJobsInFlight.Inc()
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Inc()
}
