// Package edge derives fair lines from ratings and contextual adjustments,
// compares them to market lines, and classifies the result.
package edge

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
)

// Detector classifies predicted-versus-market differences for one league
type Detector struct {
	league *config.LeagueConfig
}

// NewDetector creates an edge detector with the league's tier thresholds,
// suppression ceiling, and calibration multipliers
func NewDetector(league *config.LeagueConfig) *Detector {
	return &Detector{league: league}
}

// Input carries everything one game's detection needs. Adjustments are
// per-game values already, applied once here, not once per team.
type Input struct {
	Game        *models.CanonicalGame
	HomeRating  *models.TeamRatingSnapshot
	AwayRating  *models.TeamRatingSnapshot
	Weather     models.ContextualAdjustment
	Situational models.ContextualAdjustment
	Market      *models.MarketRecord
	Confidence  float64
	DataSources []string
}

// Detect computes the fair line and produces an immutable edge record.
//
//	predicted = (home rating - away rating) + home field + situational + weather
//	edge      = predicted - market          (home-margin sign convention)
//
// The published EdgePoints always equal predicted minus market; the
// favorite/underdog calibration multipliers only rescale the magnitude used
// for tier classification.
func (d *Detector) Detect(in Input) *models.BettingEdge {
	ratingDiff := in.HomeRating.OverallRating - in.AwayRating.OverallRating
	predicted := ratingDiff + d.league.HomeFieldAdvantage +
		in.Situational.SignedPoints + in.Weather.SignedPoints

	marketLine := in.Market.HomeSpread
	edgePoints := predicted - marketLine

	side := models.SideHome
	if edgePoints < 0 {
		side = models.SideAway
	}

	reasons := []string{
		fmt.Sprintf("rating differential %+.1f", ratingDiff),
		fmt.Sprintf("home field advantage %+.1f", d.league.HomeFieldAdvantage),
	}
	if !in.Situational.IsNeutral() {
		reasons = append(reasons, fmt.Sprintf("situational %+.1f", in.Situational.SignedPoints))
	}
	if !in.Weather.IsNeutral() {
		reasons = append(reasons, fmt.Sprintf("weather %+.1f", in.Weather.SignedPoints))
	}

	record := &models.BettingEdge{
		ID:            uuid.New(),
		GameID:        in.Game.ID,
		Season:        in.Game.Season,
		Week:          in.Game.Week,
		League:        in.Game.League,
		HomeTeam:      in.Game.HomeTeam,
		AwayTeam:      in.Game.AwayTeam,
		Side:          side,
		PredictedLine: predicted,
		MarketLine:    marketLine,
		Book:          in.Market.Book,
		EdgePoints:    edgePoints,
		Confidence:    in.Confidence,
		DataSources:   in.DataSources,
		ComputedAt:    time.Now().UTC(),
	}

	// Market-respect guard: an edge this large more plausibly means a data
	// or rating error than a genuine market inefficiency.
	if math.Abs(edgePoints) > d.league.SuppressionCeiling {
		record.Suppressed = true
		record.Tier = models.TierNone
		record.Reasons = append(reasons,
			fmt.Sprintf("suppressed: |%.1f| exceeds market-respect ceiling %.1f", edgePoints, d.league.SuppressionCeiling))
		return record
	}

	calibrated, multiplier := d.calibrate(edgePoints, marketLine, side)
	record.Tier = d.classify(math.Abs(calibrated))
	if multiplier != 1.0 {
		reasons = append(reasons,
			fmt.Sprintf("calibration multiplier %.2f applied for classification", multiplier))
	}
	record.Reasons = append(reasons, fmt.Sprintf("classified %s on calibrated magnitude %.1f", record.Tier, math.Abs(calibrated)))

	return record
}

// calibrate rescales the edge by the externally configured favorite or
// underdog multiplier, depending on which side of the market the edge backs
func (d *Detector) calibrate(edgePoints, marketLine float64, side models.Side) (float64, float64) {
	if marketLine == 0 {
		return edgePoints, 1.0
	}

	marketFavorite := models.SideHome
	if marketLine < 0 {
		marketFavorite = models.SideAway
	}

	multiplier := d.league.UnderdogMultiplier
	if side == marketFavorite {
		multiplier = d.league.FavoriteMultiplier
	}
	return edgePoints * multiplier, multiplier
}

// classify buckets an absolute calibrated edge into the league's tiers
func (d *Detector) classify(magnitude float64) models.EdgeTier {
	t := d.league.TierThresholds
	switch {
	case magnitude >= t.Max:
		return models.TierMax
	case magnitude >= t.Strong:
		return models.TierStrong
	case magnitude >= t.Moderate:
		return models.TierModerate
	case magnitude >= t.Lean:
		return models.TierLean
	default:
		return models.TierNone
	}
}
