package rating

import (
	"fmt"

	"github.com/yourusername/sharpline/internal/models"
)

const (
	// streakCap bounds the streak contribution so a long run can't dominate
	streakCap = 3.0
	// streakPointValue converts one capped streak game into rating points
	streakPointValue = 0.5
	// winPctPointScale converts win-percentage deviation from .500 into points
	winPctPointScale = 4.0
	// recencyDecay discounts each older game in the streak window
	recencyDecay = 0.75
)

// Momentum blends a recency-weighted streak value with the deviation of win
// percentage from .500 into a small signed nudge.
func (c *Calculator) Momentum(stats *models.TeamStatRecord) models.RatingComponent {
	weight := c.league.ComponentWeights[ComponentMomentum]
	if stats == nil || stats.GamesPlayed == 0 {
		return missingComponent(ComponentMomentum, weight)
	}

	streak := recencyWeightedStreak(stats.RecentMargins)
	winPctDelta := stats.WinPct() - 0.5

	value := streak*streakPointValue + winPctDelta*winPctPointScale

	return models.RatingComponent{
		Name:   ComponentMomentum,
		Value:  value,
		Weight: weight,
		Explanation: fmt.Sprintf("streak value %.2f, win pct %.3f (%+.3f from .500)",
			streak, stats.WinPct(), winPctDelta),
	}
}

// recencyWeightedStreak walks signed margins, most recent first, summing a
// decayed +1/-1 per game until the streak breaks. Magnitude is capped.
func recencyWeightedStreak(margins []float64) float64 {
	if len(margins) == 0 {
		return 0
	}

	direction := 0.0
	if margins[0] > 0 {
		direction = 1
	} else if margins[0] < 0 {
		direction = -1
	} else {
		return 0
	}

	value := 0.0
	weight := 1.0
	for _, margin := range margins {
		if margin*direction <= 0 {
			break
		}
		value += direction * weight
		weight *= recencyDecay
	}

	if value > streakCap {
		value = streakCap
	}
	if value < -streakCap {
		value = -streakCap
	}
	return value
}
