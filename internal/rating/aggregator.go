package rating

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
)

// Aggregator combines weighted components into one bounded rating per team
// per period. Home-field advantage is deliberately absent here: it is a
// property of the matchup and is applied at prediction time instead.
type Aggregator struct {
	league *config.LeagueConfig
}

// NewAggregator creates an aggregator for the given league tuning
func NewAggregator(league *config.LeagueConfig) *Aggregator {
	return &Aggregator{league: league}
}

// Aggregate builds an immutable rating snapshot for one team and week.
// overall = baseline + Σ(value × weight), clamped to the league bounds with
// an explicit Saturated flag rather than silent absorption. An external
// comparison beyond the configured threshold flags the snapshot as an
// outlier for manual audit; it is never auto-corrected.
func (a *Aggregator) Aggregate(team string, league models.League, season, week int, components []models.RatingComponent, external *float64) *models.TeamRatingSnapshot {
	overall := a.league.RatingBaseline
	for _, component := range components {
		overall += component.Contribution()
	}

	saturated := false
	if overall < a.league.RatingMin {
		overall = a.league.RatingMin
		saturated = true
	} else if overall > a.league.RatingMax {
		overall = a.league.RatingMax
		saturated = true
	}

	snapshot := &models.TeamRatingSnapshot{
		ID:                 uuid.New(),
		Team:               team,
		League:             league,
		Season:             season,
		Week:               week,
		OverallRating:      overall,
		Components:         components,
		Saturated:          saturated,
		ExternalComparison: external,
		CreatedAt:          time.Now().UTC(),
	}

	if external != nil && math.Abs(overall-*external) > a.league.OutlierThreshold {
		snapshot.Outlier = true
	}

	return snapshot
}
