package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "sercha"
	subsystem = "docchat"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Ingestion
	IngestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ingestions_total",
			Help:      "Total document ingestions",
		},
		[]string{"status"},
	)

	ChunksIndexedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chunks_indexed_total",
			Help:      "Total chunks written to the vector index",
		},
	)

	// Conversation
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "turns_total",
			Help:      "Total conversation turns",
		},
		[]string{"status"},
	)

	RetrievalDegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retrieval_degraded_total",
			Help:      "Retrievals that fell back to empty context",
		},
		[]string{"reason"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)

	// Embedding cache
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "embedding_cache_hits_total",
			Help:      "Query embeddings served from cache",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "embedding_cache_misses_total",
			Help:      "Query embeddings computed by the provider",
		},
	)
)

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordIngestion records an ingestion outcome
func RecordIngestion(status string, chunks int) {
	IngestionsTotal.WithLabelValues(status).Inc()
	if chunks > 0 {
		ChunksIndexedTotal.Add(float64(chunks))
	}
}

// RecordTurn records a conversation turn outcome
func RecordTurn(status string) {
	TurnsTotal.WithLabelValues(status).Inc()
}

// RecordRetrievalDegraded records a retrieval that fell back to empty context
func RecordRetrievalDegraded(reason string) {
	RetrievalDegradedTotal.WithLabelValues(reason).Inc()
}

// ObserveStage records how long a pipeline stage took
func ObserveStage(stage string, durationSec float64) {
	StageDuration.WithLabelValues(stage).Observe(durationSec)
}
