// Package rating computes weighted power rating components and aggregates
// them into bounded, versioned team rating snapshots.
package rating

import (
	"fmt"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
)

// Component names, matching the configured weight set
const (
	ComponentOffense  = "offense"
	ComponentDefense  = "defense"
	ComponentInjury   = "injury"
	ComponentMomentum = "momentum"
)

// Calculator produces the per-team rating components for one league. Every
// calculator returns value, weight, and explanation together so contribution
// provenance survives into the published snapshot.
type Calculator struct {
	league *config.LeagueConfig
}

// NewCalculator creates a component calculator for the given league tuning
func NewCalculator(league *config.LeagueConfig) *Calculator {
	return &Calculator{league: league}
}

// All computes the full component set for one team. A missing input never
// substitutes a baseline: the affected component contributes zero and says so.
func (c *Calculator) All(stats *models.TeamStatRecord, injuries []models.InjuryRecord) []models.RatingComponent {
	return []models.RatingComponent{
		c.Offense(stats),
		c.Defense(stats),
		c.Injury(injuries),
		c.Momentum(stats),
	}
}

// Offense scores per-game scoring and yardage output against the league
// baseline, scaled into rating points by the configured coefficients.
func (c *Calculator) Offense(stats *models.TeamStatRecord) models.RatingComponent {
	weight := c.league.ComponentWeights[ComponentOffense]
	if stats == nil || stats.GamesPlayed == 0 {
		return missingComponent(ComponentOffense, weight)
	}

	games := float64(stats.GamesPlayed)
	ppg := stats.PointsFor / games
	ypg := stats.YardsFor / games

	value := (ppg-c.league.BaselinePointsPerGame)*c.league.OffensePointsCoeff +
		(ypg-c.league.BaselineYardsPerGame)*c.league.OffenseYardsCoeff

	return models.RatingComponent{
		Name:   ComponentOffense,
		Value:  value,
		Weight: weight,
		Explanation: fmt.Sprintf("%.1f ppg vs %.1f baseline, %.0f ypg vs %.0f baseline",
			ppg, c.league.BaselinePointsPerGame, ypg, c.league.BaselineYardsPerGame),
	}
}

// Defense mirrors Offense with the inverse sign: allowing fewer points and
// yards than the baseline is positive.
func (c *Calculator) Defense(stats *models.TeamStatRecord) models.RatingComponent {
	weight := c.league.ComponentWeights[ComponentDefense]
	if stats == nil || stats.GamesPlayed == 0 {
		return missingComponent(ComponentDefense, weight)
	}

	games := float64(stats.GamesPlayed)
	papg := stats.PointsAgainst / games
	yapg := stats.YardsAgainst / games

	value := (c.league.BaselinePointsPerGame-papg)*c.league.OffensePointsCoeff +
		(c.league.BaselineYardsPerGame-yapg)*c.league.OffenseYardsCoeff

	return models.RatingComponent{
		Name:   ComponentDefense,
		Value:  value,
		Weight: weight,
		Explanation: fmt.Sprintf("%.1f papg vs %.1f baseline, %.0f yapg vs %.0f baseline",
			papg, c.league.BaselinePointsPerGame, yapg, c.league.BaselineYardsPerGame),
	}
}

// missingComponent records a sub-component with no usable input: zero
// contribution with an explicit note, never a silently substituted baseline.
func missingComponent(name string, weight float64) models.RatingComponent {
	return models.RatingComponent{
		Name:        name,
		Value:       0,
		Weight:      weight,
		Explanation: "no usable input; component contributed zero",
		Missing:     true,
	}
}
