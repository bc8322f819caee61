// Package metrics exposes Prometheus collectors for scores, leaderboards
// and play sessions on a registry owned by the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "placar"

// Leaderboard views.
const (
	ViewFull  = "full"
	ViewTop   = "top"
	ViewStats = "stats"
)

// Submission failure reasons.
const (
	ReasonUnauthenticated  = "unauthenticated"
	ReasonInvalid          = "invalid"
	ReasonStoreUnavailable = "store_unavailable"
)

// Metrics holds every collector the server records into.
type Metrics struct {
	Registry *prometheus.Registry

	ScoresRecorded     *prometheus.CounterVec
	SubmissionFailures *prometheus.CounterVec
	LeaderboardQueries *prometheus.CounterVec
	GameSessionsActive prometheus.Gauge
	AggregationSeconds prometheus.Histogram
}

// New creates the collectors and registers them, along with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ScoresRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scores_recorded_total",
				Help:      "Total score records appended, by game.",
			},
			[]string{"game"},
		),
		SubmissionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "score_submission_failures_total",
				Help:      "Total score submissions that did not produce a record, by reason.",
			},
			[]string{"reason"},
		),
		LeaderboardQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "leaderboard_queries_total",
				Help:      "Total leaderboard reads, by view.",
			},
			[]string{"view"},
		),
		GameSessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "game_sessions_active",
				Help:      "Play sessions currently held in memory.",
			},
		),
		AggregationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ranking_aggregation_seconds",
				Help:      "Time spent turning score records into a leaderboard.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
	}

	m.Registry.MustRegister(
		m.ScoresRecorded,
		m.SubmissionFailures,
		m.LeaderboardQueries,
		m.GameSessionsActive,
		m.AggregationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveAggregation records how long an aggregation that started at start took.
func (m *Metrics) ObserveAggregation(start time.Time) {
	m.AggregationSeconds.Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
