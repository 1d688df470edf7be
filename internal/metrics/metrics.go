// Package metrics holds the prometheus collectors for the mood pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodlist_stage_duration_seconds",
			Help:    "Duration of pipeline stages (generative and catalog calls) in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	StageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_stage_errors_total",
			Help: "Total number of failed pipeline stages",
		},
		[]string{"stage"},
	)

	SearchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_catalog_search_outcomes_total",
			Help: "Catalog search outcomes by tier (exact, fallback, backfill) and kind (found, absent, error)",
		},
		[]string{"tier", "outcome"},
	)

	ResolvedTracks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodlist_resolved_tracks",
			Help:    "Number of tracks returned per resolution",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)

	BackfillTriggered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodlist_backfill_triggered_total",
			Help: "Number of resolutions that fell back to keyword search",
		},
	)

	PlaylistBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_playlist_batches_total",
			Help: "Playlist append batches by outcome",
		},
		[]string{"outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodlist_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result (success, failure, rejected)",
		},
		[]string{"name", "result"},
	)

	ExportsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_playlist_exports_total",
			Help: "Playlist export records by outcome (recorded, failed, dropped)",
		},
		[]string{"outcome"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodlist_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodlist_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)
)

// ObserveStage records the duration of a stage and counts it as failed when err is non-nil.
func ObserveStage(stage string, start time.Time, err error) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		StageErrors.WithLabelValues(stage).Inc()
	}
}

func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
