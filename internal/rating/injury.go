package rating

import (
	"fmt"
	"strings"

	"github.com/yourusername/sharpline/internal/models"
)

// InjuryTier is the ordinal classification of a team's aggregate injury load
type InjuryTier string

const (
	InjuryHealthy  InjuryTier = "HEALTHY"
	InjuryMinor    InjuryTier = "MINOR"
	InjuryModerate InjuryTier = "MODERATE"
	InjuryMajor    InjuryTier = "MAJOR"
	InjurySevere   InjuryTier = "SEVERE"
)

// positionImpactWeights reflect how much a missing starter at each position
// moves a point spread. Quarterbacks dominate by a wide margin.
var positionImpactWeights = map[string]float64{
	"QB": 5.0,
	"RB": 1.5,
	"WR": 1.5,
	"TE": 0.8,
	"OL": 1.2,
	"OT": 1.2,
	"OG": 1.0,
	"C":  1.0,
	"DL": 1.0,
	"DE": 1.2,
	"DT": 1.0,
	"LB": 1.0,
	"CB": 1.2,
	"S":  1.0,
	"DB": 1.0,
	"K":  0.3,
	"P":  0.2,
}

// severityMultipliers scale a position's impact by reported availability
var severityMultipliers = map[models.PlayerStatus]float64{
	models.StatusOut:          1.0,
	models.StatusDoubtful:     0.75,
	models.StatusQuestionable: 0.4,
	models.StatusProbable:     0.15,
	models.StatusActive:       0,
}

const defaultPositionWeight = 0.8

// Injury sums position-weighted, severity-multiplied impact points over all
// non-available players, classifies the aggregate into an ordinal tier, and
// converts it to a negative adjustment floor-capped at the league's
// configured maximum plausible impact.
func (c *Calculator) Injury(reports []models.InjuryRecord) models.RatingComponent {
	weight := c.league.ComponentWeights[ComponentInjury]
	if len(reports) == 0 {
		return missingComponent(ComponentInjury, weight)
	}

	impact := 0.0
	affected := 0
	for _, report := range reports {
		mult := severityMultipliers[report.Status]
		if mult == 0 {
			continue
		}
		pos, ok := positionImpactWeights[strings.ToUpper(report.Position)]
		if !ok {
			pos = defaultPositionWeight
		}
		impact += pos * mult
		affected++
	}

	tier := classifyInjuryTier(impact)

	capped := impact
	if capped > c.league.InjuryMaxImpact {
		capped = c.league.InjuryMaxImpact
	}

	return models.RatingComponent{
		Name:   ComponentInjury,
		Value:  -capped,
		Weight: weight,
		Explanation: fmt.Sprintf("%s: %d affected players, %.1f impact points (capped at %.1f)",
			tier, affected, impact, c.league.InjuryMaxImpact),
	}
}

// classifyInjuryTier buckets raw impact points into the ordinal tier ladder
func classifyInjuryTier(impact float64) InjuryTier {
	switch {
	case impact < 1.0:
		return InjuryHealthy
	case impact < 3.0:
		return InjuryMinor
	case impact < 6.0:
		return InjuryModerate
	case impact < 10.0:
		return InjuryMajor
	default:
		return InjurySevere
	}
}
