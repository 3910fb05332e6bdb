// Package metrics provides the centralized Prometheus registry for the edge
// engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesResolvedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "games_resolved_total",
		Help:      "Total number of market records resolved to canonical games",
	})
	GamesUnresolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "games_unresolved_total",
		Help:      "Total number of market records the resolver could not match",
	}, []string{"reason"})
	EdgesDetectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "edges_detected_total",
		Help:      "Total number of edges detected, by tier",
	}, []string{"league", "tier"})
	EdgesSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "edges_suppressed_total",
		Help:      "Total number of edges suppressed by the market-respect ceiling",
	})
	RatingsSaturatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "ratings_saturated_total",
		Help:      "Total number of rating snapshots clamped at a rating bound",
	})
	RatingOutliersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "rating_outliers_total",
		Help:      "Total number of snapshots flagged against the external comparison rating",
	})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "provider_errors_total",
		Help:      "Total number of provider fetch failures",
	}, []string{"provider"})
	StakesRecommendedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharpline",
		Name:      "stakes_recommended_total",
		Help:      "Total number of nonzero stake recommendations",
	})
)

// Gauge metrics
var (
	LastRunGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharpline",
		Name:      "last_run_games",
		Help:      "Number of games processed by the most recent pipeline run",
	})
	LastRunEdges = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharpline",
		Name:      "last_run_edges",
		Help:      "Number of actionable edges found by the most recent pipeline run",
	})
	ConfiguredBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharpline",
		Name:      "configured_bankroll",
		Help:      "Bankroll the stake sizer is working from",
	})
)

// Histogram metrics
var (
	ProviderFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sharpline",
		Name:      "provider_fetch_duration_seconds",
		Help:      "Latency of provider fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
	PipelineRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharpline",
		Name:      "pipeline_run_duration_seconds",
		Help:      "Duration of full pipeline runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(GamesResolvedTotal)
		registry.MustRegister(GamesUnresolvedTotal)
		registry.MustRegister(EdgesDetectedTotal)
		registry.MustRegister(EdgesSuppressedTotal)
		registry.MustRegister(RatingsSaturatedTotal)
		registry.MustRegister(RatingOutliersTotal)
		registry.MustRegister(ProviderErrorsTotal)
		registry.MustRegister(StakesRecommendedTotal)

		registry.MustRegister(LastRunGames)
		registry.MustRegister(LastRunEdges)
		registry.MustRegister(ConfiguredBankroll)

		registry.MustRegister(ProviderFetchDuration)
		registry.MustRegister(PipelineRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordResolved records a successful identity resolution.
func RecordResolved() {
	GamesResolvedTotal.Inc()
}

// RecordUnresolved records a resolver miss by reason.
func RecordUnresolved(reason string) {
	GamesUnresolvedTotal.WithLabelValues(reason).Inc()
}

// RecordEdge records a detected edge by league and tier.
func RecordEdge(league, tier string) {
	EdgesDetectedTotal.WithLabelValues(league, tier).Inc()
}

// RecordSuppressed records a suppressed edge.
func RecordSuppressed() {
	EdgesSuppressedTotal.Inc()
}

// RecordSaturated records a clamped rating snapshot.
func RecordSaturated() {
	RatingsSaturatedTotal.Inc()
}

// RecordOutlier records an external-comparison outlier flag.
func RecordOutlier() {
	RatingOutliersTotal.Inc()
}

// RecordProviderError records a provider fetch failure.
func RecordProviderError(provider string) {
	ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

// RecordProviderFetch records provider fetch latency.
func RecordProviderFetch(provider string, durationSeconds float64) {
	ProviderFetchDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordStake records a nonzero stake recommendation.
func RecordStake() {
	StakesRecommendedTotal.Inc()
}

// SetBankroll exposes the configured bankroll as a gauge.
func SetBankroll(bankroll float64) {
	ConfiguredBankroll.Set(bankroll)
}

// RecordRun records the shape and duration of a completed pipeline run.
func RecordRun(games, edges int, durationSeconds float64) {
	LastRunGames.Set(float64(games))
	LastRunEdges.Set(float64(edges))
	PipelineRunDuration.Observe(durationSeconds)
}
