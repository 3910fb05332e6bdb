package adjust

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/sharpline/internal/models"
)

func outdoorGame() *models.CanonicalGame {
	return &models.CanonicalGame{
		HomeTeam: "Buffalo Bills",
		AwayTeam: "Miami Dolphins",
		Venue:    "Highmark Stadium",
	}
}

func TestWeatherTakesMoreSevereEstimateNotSum(t *testing.T) {
	// Observations worth -8 (wind -4, ice -4), alert worth -6: the effective
	// adjustment is -8, never the -14 a sum would give
	wx := &models.WeatherRecord{
		Venue:        "Highmark Stadium",
		TemperatureF: 45,
		WindMPH:      27,
		PrecipChance: 0.9,
		Precip:       models.PrecipIce,
		Alert:        models.AlertWarning,
	}

	adjustment := Weather(outdoorGame(), wx)
	assert.Equal(t, -8.0, adjustment.SignedPoints)
	assert.NotEmpty(t, adjustment.Reasons)
}

func TestWeatherAlertSupersedesMilderObservations(t *testing.T) {
	wx := &models.WeatherRecord{
		Venue:        "Highmark Stadium",
		TemperatureF: 45,
		WindMPH:      12, // -1.0 observation estimate
		Alert:        models.AlertWarning,
	}

	adjustment := Weather(outdoorGame(), wx)
	assert.Equal(t, -6.0, adjustment.SignedPoints)
	assert.Contains(t, adjustment.Reasons[len(adjustment.Reasons)-1], "supersedes")
}

func TestWeatherIndoorShortCircuitsToZero(t *testing.T) {
	game := outdoorGame()
	game.Indoor = true

	wx := &models.WeatherRecord{
		Venue:   "Dome",
		WindMPH: 40,
		Alert:   models.AlertWarning,
	}

	adjustment := Weather(game, wx)
	assert.Zero(t, adjustment.SignedPoints)
	assert.Contains(t, adjustment.Reasons[0], "indoor")
}

func TestWeatherMissingForecastIsNeutralAndLabeled(t *testing.T) {
	adjustment := Weather(outdoorGame(), nil)
	assert.Zero(t, adjustment.SignedPoints)
	assert.Contains(t, adjustment.Reasons[0], "no forecast")
}

func TestWeatherBenignConditions(t *testing.T) {
	wx := &models.WeatherRecord{Venue: "Highmark Stadium", TemperatureF: 65, WindMPH: 5}
	adjustment := Weather(outdoorGame(), wx)
	assert.Zero(t, adjustment.SignedPoints)
	assert.Contains(t, adjustment.Reasons[0], "benign")
}

func TestSituationalCombinesAdditively(t *testing.T) {
	in := SituationalInputs{
		HomeRestDays:     10, // +3 days * 0.3 = +0.9
		AwayRestDays:     7,
		AwayTravelMiles:  2400, // +1.5
		Rivalry:          true, // -0.5
		AwayScheduleSpot: SpotLookAhead, // away -1.5 => home +1.5
		HomePlayoffStake: true, // +0.8
	}

	adjustment := Situational(in)
	assert.InDelta(t, 0.9+1.5-0.5+1.5+0.8, adjustment.SignedPoints, 1e-9)
	assert.Len(t, adjustment.Reasons, 5)
}

func TestSituationalRestDifferentialIsCapped(t *testing.T) {
	in := SituationalInputs{HomeRestDays: 21, AwayRestDays: 4}
	adjustment := Situational(in)
	assert.InDelta(t, restDiffPointCap, adjustment.SignedPoints, 1e-9)
}

func TestSituationalOpposingSpotsNet(t *testing.T) {
	in := SituationalInputs{
		HomeScheduleSpot: SpotRevenge,   // +1.0
		AwayScheduleSpot: SpotLetdown,   // away -1.0 => home +1.0
	}
	adjustment := Situational(in)
	assert.InDelta(t, 2.0, adjustment.SignedPoints, 1e-9)
}

func TestSituationalNeutralGameIsLabeled(t *testing.T) {
	adjustment := Situational(SituationalInputs{HomeRestDays: 7, AwayRestDays: 7})
	assert.Zero(t, adjustment.SignedPoints)
	assert.Equal(t, []string{"no situational factors"}, adjustment.Reasons)
}

func TestSituationalBothSidesPlayoffStakeCancels(t *testing.T) {
	adjustment := Situational(SituationalInputs{HomePlayoffStake: true, AwayPlayoffStake: true})
	assert.Zero(t, adjustment.SignedPoints)
}
