// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_requests_total",
			Help: "Total number of match requests by outcome",
		},
		[]string{"outcome"},
	)

	MatchRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "matching_request_duration_seconds",
			Help: "Duration of match request processing in seconds",
		},
		[]string{"operation"},
	)

	CompatibilityCacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_compatibility_cache_total",
			Help: "Compatibility cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CandidatePoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matching_candidate_pool_size",
			Help: "Number of users currently in the candidate pool",
		},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_candidates_scored_total",
			Help: "Total number of candidate pairs scored",
		},
	)
)
