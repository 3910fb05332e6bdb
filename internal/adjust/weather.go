// Package adjust computes per-game contextual point adjustments: weather
// effects under a max-of-two-estimates rule and additive situational
// effects across independent categories.
package adjust

import (
	"fmt"

	"github.com/yourusername/sharpline/internal/models"
)

// Alert severity point estimates. An alert is a condensed read on the same
// underlying conditions as the raw observations, which is why the two
// estimates are never summed.
var alertPointEstimates = map[models.AlertSeverity]float64{
	models.AlertAdvisory: -2.0,
	models.AlertWatch:    -4.0,
	models.AlertWarning:  -6.0,
}

// Weather returns the game's weather adjustment: the more severe of the
// observation-based estimate and the alert-based estimate. An indoor venue
// short-circuits to zero regardless of other inputs.
func Weather(game *models.CanonicalGame, wx *models.WeatherRecord) models.ContextualAdjustment {
	if game.Indoor {
		return models.ContextualAdjustment{
			Kind:    models.AdjustmentWeather,
			Reasons: []string{"indoor venue, weather ignored"},
		}
	}

	if wx == nil {
		return models.ContextualAdjustment{
			Kind:    models.AdjustmentWeather,
			Reasons: []string{"no forecast available"},
		}
	}

	obsEstimate, obsReasons := observationEstimate(wx)
	alertEstimate := alertPointEstimates[wx.Alert]

	adjustment := models.ContextualAdjustment{Kind: models.AdjustmentWeather}

	// Take the more severe estimate, not the sum: summing double-counts the
	// conditions the alert already reflects.
	if obsEstimate <= alertEstimate {
		adjustment.SignedPoints = obsEstimate
		adjustment.Reasons = obsReasons
		if alertEstimate < 0 {
			adjustment.Reasons = append(adjustment.Reasons,
				fmt.Sprintf("%s alert estimate %.1f superseded by observations", wx.Alert, alertEstimate))
		}
	} else {
		adjustment.SignedPoints = alertEstimate
		adjustment.Reasons = append(adjustment.Reasons,
			fmt.Sprintf("%s alert estimate %.1f supersedes observation estimate %.1f", wx.Alert, alertEstimate, obsEstimate))
	}

	if adjustment.SignedPoints == 0 && len(adjustment.Reasons) == 0 {
		adjustment.Reasons = []string{"benign conditions"}
	}

	return adjustment
}

// observationEstimate converts raw numeric conditions into a point estimate
func observationEstimate(wx *models.WeatherRecord) (float64, []string) {
	estimate := 0.0
	var reasons []string

	switch {
	case wx.WindMPH >= 25:
		estimate -= 4.0
		reasons = append(reasons, fmt.Sprintf("sustained wind %.0f mph", wx.WindMPH))
	case wx.WindMPH >= 15:
		estimate -= 2.5
		reasons = append(reasons, fmt.Sprintf("sustained wind %.0f mph", wx.WindMPH))
	case wx.WindMPH >= 10:
		estimate -= 1.0
		reasons = append(reasons, fmt.Sprintf("sustained wind %.0f mph", wx.WindMPH))
	}

	switch {
	case wx.TemperatureF <= 10:
		estimate -= 2.0
		reasons = append(reasons, fmt.Sprintf("temperature %.0fF", wx.TemperatureF))
	case wx.TemperatureF <= 20:
		estimate -= 1.0
		reasons = append(reasons, fmt.Sprintf("temperature %.0fF", wx.TemperatureF))
	}

	if wx.PrecipChance >= 0.5 {
		switch wx.Precip {
		case models.PrecipIce:
			estimate -= 4.0
			reasons = append(reasons, fmt.Sprintf("ice, %.0f%% chance", wx.PrecipChance*100))
		case models.PrecipSnow:
			estimate -= 3.0
			reasons = append(reasons, fmt.Sprintf("snow, %.0f%% chance", wx.PrecipChance*100))
		case models.PrecipRain:
			estimate -= 1.5
			reasons = append(reasons, fmt.Sprintf("rain, %.0f%% chance", wx.PrecipChance*100))
		}
	}

	return estimate, reasons
}
