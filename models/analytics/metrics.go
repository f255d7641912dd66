package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCacheHit  = "cache_hit"
	outcomeGenerated = "generated"
	outcomeFallback  = "fallback"
)

var (
	sourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analytics",
		Name:      "source_failures_total",
		Help:      "Source reads that failed and were replaced by an empty default.",
	}, []string{"source"})

	analysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analytics",
		Name:      "requests_total",
		Help:      "Executive analysis requests by the path that served them.",
	}, []string{"outcome"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "analytics",
		Name:      "generation_duration_seconds",
		Help:      "Time spent generating a fresh analysis, including source reads.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	snapshotSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "analytics",
		Name:      "snapshot_save_failures_total",
		Help:      "Analysis snapshots that could not be persisted.",
	})
)
