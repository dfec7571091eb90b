package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis operation failures.
	RedisErrorRate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draftline_redis_errors_total",
		Help: "Total number of Redis operation errors",
	})

	// DatabaseQueryLatency tracks DB query durations by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "draftline_db_query_duration_seconds",
		Help:    "Database query latency in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation", "table"})

	// ProviderRequestDuration tracks LLM provider call durations by provider and stage.
	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "draftline_provider_request_duration_seconds",
		Help:    "LLM provider request latency in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"provider", "stage"})

	// ProviderErrors counts failed LLM provider calls by provider and stage.
	ProviderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "draftline_provider_errors_total",
		Help: "Total number of failed LLM provider requests",
	}, []string{"provider", "stage"})

	// ExtractionDuration tracks document extraction durations by source type.
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "draftline_extraction_duration_seconds",
		Help:    "Document content extraction latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"source_type"})

	// AnalysisCacheHits counts analyses served from the reuse window instead of the provider.
	AnalysisCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "draftline_analysis_cache_hits_total",
		Help: "Total number of analyses reused from cache",
	})
)

// TrackQuery returns a function that records the elapsed time for a DB query.
// Usage: defer observability.TrackQuery("select", "documents")()
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackProviderRequest returns a function that records the elapsed time for a provider call.
func TrackProviderRequest(provider, stage string) func() {
	start := time.Now()
	return func() {
		ProviderRequestDuration.WithLabelValues(provider, stage).Observe(time.Since(start).Seconds())
	}
}

// TrackExtraction returns a function that records the elapsed time for an extraction.
func TrackExtraction(sourceType string) func() {
	start := time.Now()
	return func() {
		ExtractionDuration.WithLabelValues(sourceType).Observe(time.Since(start).Seconds())
	}
}
