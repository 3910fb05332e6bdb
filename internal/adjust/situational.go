package adjust

import (
	"fmt"

	"github.com/yourusername/sharpline/internal/models"
)

// ScheduleSpot classifies a team's spot in its schedule
type ScheduleSpot string

const (
	SpotNone      ScheduleSpot = ""
	SpotLookAhead ScheduleSpot = "look_ahead"
	SpotLetdown   ScheduleSpot = "letdown"
	SpotRevenge   ScheduleSpot = "revenge"
)

// scheduleSpotValues are per-team point effects for each spot classification
var scheduleSpotValues = map[ScheduleSpot]float64{
	SpotLookAhead: -1.5,
	SpotLetdown:   -1.0,
	SpotRevenge:   1.0,
}

// SituationalInputs are the discrete categorical conditions feeding the
// situational adjustment. All values describe the game from the home team's
// perspective; the resulting signed points follow the home-margin convention.
type SituationalInputs struct {
	HomeRestDays     int
	AwayRestDays     int
	AwayTravelMiles  float64
	Rivalry          bool
	HomeScheduleSpot ScheduleSpot
	AwayScheduleSpot ScheduleSpot
	HomePlayoffStake bool
	AwayPlayoffStake bool
}

const (
	restDayPointValue  = 0.3
	restDiffPointCap   = 2.0
	rivalryCompression = -0.5
	playoffStakeValue  = 0.8
)

// Situational sums additive point adjustments across the independent
// categorical conditions. Unlike weather, these combine additively because
// each category is an independent cause.
func Situational(in SituationalInputs) models.ContextualAdjustment {
	adjustment := models.ContextualAdjustment{Kind: models.AdjustmentSituational}

	if rest := restDifferential(in.HomeRestDays, in.AwayRestDays); rest != 0 {
		adjustment.SignedPoints += rest
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("rest differential %d vs %d days (%+.1f)", in.HomeRestDays, in.AwayRestDays, rest))
	}

	if travel := travelTier(in.AwayTravelMiles); travel != 0 {
		adjustment.SignedPoints += travel
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("away travel %.0f miles (%+.1f)", in.AwayTravelMiles, travel))
	}

	if in.Rivalry {
		adjustment.SignedPoints += rivalryCompression
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("rivalry game compresses home edge (%+.1f)", rivalryCompression))
	}

	if spot := scheduleSpotValues[in.HomeScheduleSpot]; spot != 0 {
		adjustment.SignedPoints += spot
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("home %s spot (%+.1f)", in.HomeScheduleSpot, spot))
	}
	if spot := scheduleSpotValues[in.AwayScheduleSpot]; spot != 0 {
		adjustment.SignedPoints -= spot
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("away %s spot (%+.1f)", in.AwayScheduleSpot, -spot))
	}

	if in.HomePlayoffStake != in.AwayPlayoffStake {
		value := playoffStakeValue
		side := "home"
		if in.AwayPlayoffStake {
			value = -playoffStakeValue
			side = "away"
		}
		adjustment.SignedPoints += value
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("%s team has playoff implications (%+.1f)", side, value))
	}

	if len(adjustment.Reasons) == 0 {
		adjustment.Reasons = []string{"no situational factors"}
	}

	return adjustment
}

// restDifferential converts the rest-day gap into points, capped so a bye
// week cannot swing a line by itself
func restDifferential(homeDays, awayDays int) float64 {
	diff := float64(homeDays-awayDays) * restDayPointValue
	if diff > restDiffPointCap {
		return restDiffPointCap
	}
	if diff < -restDiffPointCap {
		return -restDiffPointCap
	}
	return diff
}

// travelTier buckets the away team's travel distance into home points
func travelTier(miles float64) float64 {
	switch {
	case miles >= 2000:
		return 1.5
	case miles >= 1000:
		return 1.0
	case miles >= 500:
		return 0.5
	default:
		return 0
	}
}
