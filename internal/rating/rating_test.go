package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
)

func testLeagueConfig() *config.LeagueConfig {
	return &config.LeagueConfig{
		RatingBaseline: 0,
		RatingMin:      -15,
		RatingMax:      15,
		ComponentWeights: map[string]float64{
			ComponentOffense:  0.30,
			ComponentDefense:  0.30,
			ComponentInjury:   0.25,
			ComponentMomentum: 0.15,
		},
		InjuryMaxImpact:       8.0,
		OutlierThreshold:      6.0,
		OffensePointsCoeff:    0.5,
		OffenseYardsCoeff:     0.01,
		BaselinePointsPerGame: 22.5,
		BaselineYardsPerGame:  330,
	}
}

func testStats() *models.TeamStatRecord {
	return &models.TeamStatRecord{
		Team:          "Kansas City Chiefs",
		League:        models.LeagueNFL,
		Season:        2025,
		Week:          11,
		GamesPlayed:   10,
		Wins:          8,
		Losses:        2,
		PointsFor:     285, // 28.5 ppg
		PointsAgainst: 185, // 18.5 papg
		YardsFor:      3800,
		YardsAgainst:  3000,
		RecentMargins: []float64{7, 3, 10, -4},
	}
}

func TestOffenseAboveBaselineIsPositive(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())
	component := calc.Offense(testStats())

	assert.Equal(t, ComponentOffense, component.Name)
	assert.Greater(t, component.Value, 0.0)
	assert.Equal(t, 0.30, component.Weight)
	assert.NotEmpty(t, component.Explanation)
	assert.False(t, component.Missing)
}

func TestDefenseUsesInverseSign(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())

	// Allows fewer points and yards than baseline: positive contribution
	component := calc.Defense(testStats())
	assert.Greater(t, component.Value, 0.0)

	// A leaky defense scores negative
	leaky := testStats()
	leaky.PointsAgainst = 320
	leaky.YardsAgainst = 4200
	component = calc.Defense(leaky)
	assert.Less(t, component.Value, 0.0)
}

func TestMissingStatsContributeZeroWithNote(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())

	for _, component := range []models.RatingComponent{
		calc.Offense(nil),
		calc.Defense(nil),
		calc.Momentum(nil),
		calc.Injury(nil),
	} {
		assert.True(t, component.Missing, component.Name)
		assert.Zero(t, component.Value, component.Name)
		assert.Contains(t, component.Explanation, "no usable input")
	}
}

func TestInjuryImpactAndTier(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())

	tests := []struct {
		name      string
		reports   []models.InjuryRecord
		wantValue float64
		wantTier  string
	}{
		{
			name: "quarterback out dominates",
			reports: []models.InjuryRecord{
				{Team: "x", League: models.LeagueNFL, Player: "QB1", Position: "QB", Status: models.StatusOut},
			},
			wantValue: -5.0,
			wantTier:  string(InjuryModerate),
		},
		{
			name: "questionable receiver is a fraction",
			reports: []models.InjuryRecord{
				{Team: "x", League: models.LeagueNFL, Player: "WR1", Position: "WR", Status: models.StatusQuestionable},
			},
			wantValue: -0.6,
			wantTier:  string(InjuryHealthy),
		},
		{
			name: "active players contribute nothing",
			reports: []models.InjuryRecord{
				{Team: "x", League: models.LeagueNFL, Player: "RB1", Position: "RB", Status: models.StatusActive},
			},
			wantValue: 0,
			wantTier:  string(InjuryHealthy),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			component := calc.Injury(tt.reports)
			assert.InDelta(t, tt.wantValue, component.Value, 1e-9)
			assert.Contains(t, component.Explanation, tt.wantTier)
		})
	}
}

func TestInjuryImpactIsCapped(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())

	// A catastrophic report sheet cannot exceed the configured maximum
	var reports []models.InjuryRecord
	for i := 0; i < 6; i++ {
		reports = append(reports, models.InjuryRecord{
			Team: "x", League: models.LeagueNFL, Player: "P", Position: "QB", Status: models.StatusOut,
		})
	}

	component := calc.Injury(reports)
	assert.Equal(t, -8.0, component.Value)
	assert.Contains(t, component.Explanation, string(InjurySevere))
}

func TestMomentumStreakIsCapped(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())

	stats := testStats()
	stats.Wins = 10
	stats.Losses = 0
	stats.RecentMargins = []float64{21, 14, 17, 28, 10, 3, 7, 13}

	component := calc.Momentum(stats)
	// streakCap * streakPointValue + 0.5 * winPctPointScale is the max
	assert.LessOrEqual(t, component.Value, streakCap*streakPointValue+0.5*winPctPointScale)
	assert.Greater(t, component.Value, 0.0)
}

func TestMomentumLosingStreakIsNegative(t *testing.T) {
	calc := NewCalculator(testLeagueConfig())

	stats := testStats()
	stats.Wins = 2
	stats.Losses = 8
	stats.RecentMargins = []float64{-7, -3, -14}

	component := calc.Momentum(stats)
	assert.Less(t, component.Value, 0.0)
}

func TestAggregateStaysWithinLeagueBounds(t *testing.T) {
	lc := testLeagueConfig()
	agg := NewAggregator(lc)

	tests := []struct {
		name          string
		value         float64
		wantSaturated bool
	}{
		{"typical contribution", 10, false},
		{"clamped at max", 400, true},
		{"clamped at min", -400, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := []models.RatingComponent{
				{Name: ComponentOffense, Value: tt.value, Weight: 1.0},
			}
			snapshot := agg.Aggregate("Kansas City Chiefs", models.LeagueNFL, 2025, 11, components, nil)

			assert.GreaterOrEqual(t, snapshot.OverallRating, lc.RatingMin)
			assert.LessOrEqual(t, snapshot.OverallRating, lc.RatingMax)
			assert.Equal(t, tt.wantSaturated, snapshot.Saturated)
		})
	}
}

func TestAggregateWeightsComponents(t *testing.T) {
	agg := NewAggregator(testLeagueConfig())

	components := []models.RatingComponent{
		{Name: ComponentOffense, Value: 10, Weight: 0.30},
		{Name: ComponentDefense, Value: -4, Weight: 0.30},
		{Name: ComponentInjury, Value: -2, Weight: 0.25},
		{Name: ComponentMomentum, Value: 1, Weight: 0.15},
	}

	snapshot := agg.Aggregate("Buffalo Bills", models.LeagueNFL, 2025, 11, components, nil)
	require.NotNil(t, snapshot)
	assert.InDelta(t, 10*0.30-4*0.30-2*0.25+1*0.15, snapshot.OverallRating, 1e-9)
	assert.False(t, snapshot.Saturated)
	assert.Len(t, snapshot.Components, 4)
}

func TestAggregateFlagsExternalOutlier(t *testing.T) {
	agg := NewAggregator(testLeagueConfig())

	components := []models.RatingComponent{
		{Name: ComponentOffense, Value: 10, Weight: 1.0},
	}

	aligned := 9.0
	snapshot := agg.Aggregate("Buffalo Bills", models.LeagueNFL, 2025, 11, components, &aligned)
	assert.False(t, snapshot.Outlier)

	divergent := 1.0
	snapshot = agg.Aggregate("Buffalo Bills", models.LeagueNFL, 2025, 11, components, &divergent)
	assert.True(t, snapshot.Outlier)
	// The rating itself is never auto-corrected toward the comparison
	assert.InDelta(t, 10.0, snapshot.OverallRating, 1e-9)
}
