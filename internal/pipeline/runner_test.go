package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
	"github.com/yourusername/sharpline/internal/providers"
	"github.com/yourusername/sharpline/internal/repository"
)

var kickoff = time.Date(2025, 11, 16, 21, 25, 0, 0, time.UTC)

func testConfig() *config.Config {
	league := config.LeagueConfig{
		RatingBaseline:     0,
		RatingMin:          -15,
		RatingMax:          15,
		HomeFieldAdvantage: 2.0,
		ComponentWeights: map[string]float64{
			"offense": 0.30, "defense": 0.30, "injury": 0.25, "momentum": 0.15,
		},
		TierThresholds: config.TierThresholds{
			Lean: 1.5, Moderate: 3.0, Strong: 5.0, Max: 7.0,
		},
		SuppressionCeiling: 10.0,
		FavoriteMultiplier: 1.0,
		UnderdogMultiplier: 1.0,
		TierWinProbability: map[string]float64{
			"LEAN": 0.53, "MODERATE": 0.56, "STRONG": 0.60, "MAX": 0.64,
		},
		InjuryMaxImpact:       8.0,
		OutlierThreshold:      6.0,
		OffensePointsCoeff:    0.5,
		OffenseYardsCoeff:     0.01,
		BaselinePointsPerGame: 22.5,
		BaselineYardsPerGame:  330,
	}

	return &config.Config{
		Leagues: config.LeaguesConfig{NFL: league, CFB: league},
		Pipeline: config.PipelineConfig{
			MaxConcurrentGames:     4,
			ProviderTimeoutSeconds: 5,
			DateToleranceHours:     24,
			ConfidencePenalty:      0.1,
			MinConfidence:          0.5,
		},
		Staking: config.StakingConfig{
			Bankroll:           10000,
			MaxKellyFraction:   0.25,
			MinEdgePoints:      1.5,
			DefaultDecimalOdds: 2.0,
			MinStake:           1,
		},
	}
}

type fakeScheduleProvider struct {
	records []models.ScheduleRecord
	err     error
}

func (f *fakeScheduleProvider) FetchSchedule(ctx context.Context, league models.League, season, week int) ([]models.ScheduleRecord, error) {
	return f.records, f.err
}
func (f *fakeScheduleProvider) Name() string    { return "schedule" }
func (f *fakeScheduleProvider) IsEnabled() bool { return true }

type fakeOddsProvider struct {
	records []models.MarketRecord
	err     error
}

func (f *fakeOddsProvider) FetchMarkets(ctx context.Context, league models.League, season, week int) ([]models.MarketRecord, error) {
	return f.records, f.err
}
func (f *fakeOddsProvider) Name() string    { return "odds" }
func (f *fakeOddsProvider) IsEnabled() bool { return true }

type fakeWeatherProvider struct {
	record *models.WeatherRecord
	err    error
}

func (f *fakeWeatherProvider) FetchForecast(ctx context.Context, venue string, at time.Time) (*models.WeatherRecord, error) {
	return f.record, f.err
}
func (f *fakeWeatherProvider) Name() string    { return "weather" }
func (f *fakeWeatherProvider) IsEnabled() bool { return true }

type fakeInjuryProvider struct {
	byTeam map[string][]models.InjuryRecord
	err    error
}

func (f *fakeInjuryProvider) FetchInjuries(ctx context.Context, league models.League, team string) ([]models.InjuryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTeam[team], nil
}
func (f *fakeInjuryProvider) Name() string    { return "injury" }
func (f *fakeInjuryProvider) IsEnabled() bool { return true }

type fakeStatsProvider struct {
	byTeam map[string]*models.TeamStatRecord
	err    error
}

func (f *fakeStatsProvider) FetchTeamStats(ctx context.Context, league models.League, team string, season, week int) (*models.TeamStatRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTeam[team], nil
}
func (f *fakeStatsProvider) Name() string    { return "stats" }
func (f *fakeStatsProvider) IsEnabled() bool { return true }

type memoryGameRepo struct {
	mu       sync.Mutex
	games    map[uuid.UUID]*models.CanonicalGame
	naturals map[string]uuid.UUID
}

func newMemoryGameRepo() *memoryGameRepo {
	return &memoryGameRepo{
		games:    make(map[uuid.UUID]*models.CanonicalGame),
		naturals: make(map[string]uuid.UUID),
	}
}

func naturalKey(g *models.CanonicalGame) string {
	return fmt.Sprintf("%d/%d/%s/%s/%s", g.Season, g.Week, g.League, g.HomeTeam, g.AwayTeam)
}

// Upsert mirrors the Postgres contract: on a natural-key conflict the stored
// row keeps its id, which is written back into the passed game
func (m *memoryGameRepo) Upsert(ctx context.Context, game *models.CanonicalGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := naturalKey(game)
	if existing, ok := m.naturals[key]; ok {
		game.ID = existing
	} else {
		m.naturals[key] = game.ID
	}
	m.games[game.ID] = game
	return nil
}

func (m *memoryGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CanonicalGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return game, nil
}

func (m *memoryGameRepo) GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.CanonicalGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.CanonicalGame
	for _, g := range m.games {
		if g.League == league && g.Season == season && g.Week == week {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memoryGameRepo) GetByKickoffRange(ctx context.Context, league models.League, start, end time.Time) ([]*models.CanonicalGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.CanonicalGame
	for _, g := range m.games {
		if g.League == league && !g.KickoffTime.Before(start) && !g.KickoffTime.After(end) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memoryGameRepo) UpdateResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	return nil
}

type memoryRatingRepo struct {
	mu        sync.Mutex
	snapshots []*models.TeamRatingSnapshot
}

func (m *memoryRatingRepo) Insert(ctx context.Context, s *models.TeamRatingSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *memoryRatingRepo) GetLatest(ctx context.Context, league models.League, team string, season, week int) (*models.TeamRatingSnapshot, error) {
	return nil, models.ErrNotFound
}

func (m *memoryRatingRepo) GetWeek(ctx context.Context, league models.League, season, week int) ([]*models.TeamRatingSnapshot, error) {
	return nil, nil
}

func (m *memoryRatingRepo) GetHistory(ctx context.Context, league models.League, team string, season int) ([]*models.TeamRatingSnapshot, error) {
	return nil, nil
}

type memoryEdgeRepo struct {
	mu    sync.Mutex
	edges []*models.BettingEdge
}

func (m *memoryEdgeRepo) Insert(ctx context.Context, e *models.BettingEdge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, e)
	return nil
}

func (m *memoryEdgeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BettingEdge, error) {
	return nil, models.ErrNotFound
}

func (m *memoryEdgeRepo) GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	return nil, nil
}

func (m *memoryEdgeRepo) GetActionableByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	return nil, nil
}

type memoryStakeRepo struct {
	mu     sync.Mutex
	stakes []*models.StakeRecommendation
}

func (m *memoryStakeRepo) Insert(ctx context.Context, rec *models.StakeRecommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stakes = append(m.stakes, rec)
	return nil
}

func (m *memoryStakeRepo) GetByEdgeID(ctx context.Context, edgeID uuid.UUID) (*models.StakeRecommendation, error) {
	return nil, models.ErrNotFound
}

func (m *memoryStakeRepo) GetBets(ctx context.Context, since time.Time) ([]*models.StakeRecommendation, error) {
	return nil, nil
}

func testRepos() (*repository.Repositories, *memoryEdgeRepo, *memoryRatingRepo, *memoryStakeRepo) {
	edges := &memoryEdgeRepo{}
	ratings := &memoryRatingRepo{}
	stakes := &memoryStakeRepo{}
	repos := &repository.Repositories{
		Game:   newMemoryGameRepo(),
		Rating: ratings,
		Edge:   edges,
		Stake:  stakes,
	}
	return repos, edges, ratings, stakes
}

func testStats(pointsFor, pointsAgainst float64) *models.TeamStatRecord {
	return &models.TeamStatRecord{
		GamesPlayed:   10,
		Wins:          5,
		Losses:        5,
		PointsFor:     pointsFor,
		PointsAgainst: pointsAgainst,
		YardsFor:      3300,
		YardsAgainst:  3300,
		RecentMargins: []float64{3, -3},
	}
}

func scheduleFixture() []models.ScheduleRecord {
	return []models.ScheduleRecord{{
		ProviderID:  "g1",
		Season:      2025,
		Week:        11,
		League:      models.LeagueNFL,
		HomeTeam:    "Kansas City Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		Venue:       "Arrowhead Stadium",
	}}
}

func marketFixture(homeSpread float64) []models.MarketRecord {
	return []models.MarketRecord{{
		ProviderID:  "m1",
		Book:        "pinnacle",
		HomeTeam:    "KC Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		HomeSpread:  homeSpread,
		RetrievedAt: kickoff.Add(-48 * time.Hour),
	}}
}

func testProviderSet(schedule []models.ScheduleRecord, markets []models.MarketRecord) *providers.Set {
	stats := map[string]*models.TeamStatRecord{
		"Kansas City Chiefs": testStats(290, 180),
		"Buffalo Bills":      testStats(225, 225),
	}
	return &providers.Set{
		Schedule: &fakeScheduleProvider{records: schedule},
		Odds:     &fakeOddsProvider{records: markets},
		Weather:  &fakeWeatherProvider{record: &models.WeatherRecord{Venue: "Arrowhead Stadium"}},
		Injury:   &fakeInjuryProvider{byTeam: map[string][]models.InjuryRecord{}},
		Stats:    &fakeStatsProvider{byTeam: stats},
	}
}

func testRunner(set *providers.Set, repos *repository.Repositories) *Runner {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewRunner(testConfig(), set, repos, log)
}

func TestRunEmptyScheduleIsStructuralFailure(t *testing.T) {
	repos, _, _, _ := testRepos()
	set := testProviderSet(nil, nil)
	runner := testRunner(set, repos)

	_, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoSchedule))
}

func TestRunDetectsAndPersistsEdge(t *testing.T) {
	repos, edges, ratings, stakes := testRepos()
	set := testProviderSet(scheduleFixture(), marketFixture(-1.0))
	runner := testRunner(set, repos)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Games)
	assert.Equal(t, 1, summary.Resolved)
	assert.Zero(t, summary.Unresolved)
	assert.Empty(t, summary.Failures)

	require.Len(t, summary.Edges, 1)
	detected := summary.Edges[0]
	assert.Equal(t, "Kansas City Chiefs", detected.HomeTeam)
	assert.InDelta(t, detected.PredictedLine-detected.MarketLine, detected.EdgePoints, 1e-9)
	assert.Equal(t, 1.0, detected.Confidence)

	// both snapshots, the edge, and the stake landed in storage
	assert.Len(t, ratings.snapshots, 2)
	assert.Len(t, edges.edges, 1)
	assert.Len(t, stakes.stakes, 1)
}

func TestRunResolvesMarketThroughAlias(t *testing.T) {
	repos, _, _, _ := testRepos()
	// market uses "KC Chiefs", schedule uses "Kansas City Chiefs"
	set := testProviderSet(scheduleFixture(), marketFixture(-2.5))
	runner := testRunner(set, repos)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)
}

func TestRunUnresolvedMarketIsCountedNotGuessed(t *testing.T) {
	repos, edges, _, _ := testRepos()
	markets := marketFixture(-2.5)
	markets[0].HomeTeam = "Some Unknown Team"
	set := testProviderSet(scheduleFixture(), markets)
	runner := testRunner(set, repos)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unresolved)
	assert.Zero(t, summary.Resolved)
	assert.Empty(t, edges.edges)

	// the game without a resolvable line fails in isolation
	require.Len(t, summary.Failures, 1)
	assert.Contains(t, summary.Failures[0].Reason, "no resolvable market line")
}

func TestRunProviderFailureDegradesConfidence(t *testing.T) {
	repos, _, _, _ := testRepos()
	set := testProviderSet(scheduleFixture(), marketFixture(-1.0))
	set.Weather = &fakeWeatherProvider{err: errors.New("upstream 503")}
	runner := testRunner(set, repos)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	require.Len(t, summary.Edges, 1)
	detected := summary.Edges[0]
	assert.InDelta(t, 0.9, detected.Confidence, 1e-9)
	assert.NotContains(t, detected.DataSources, "weather")
	assert.Contains(t, detected.DataSources, "stats_home")
}

func TestRunBelowConfidenceFloorSkipsGame(t *testing.T) {
	repos, edges, _, _ := testRepos()
	set := testProviderSet(scheduleFixture(), marketFixture(-1.0))
	set.Weather = &fakeWeatherProvider{err: errors.New("down")}
	set.Injury = &fakeInjuryProvider{err: errors.New("down")}
	set.Stats = &fakeStatsProvider{err: errors.New("down")}
	cfg := testConfig()
	cfg.Pipeline.MinConfidence = 0.6
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	runner := NewRunner(cfg, set, repos, log)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	// five provider fetches failed at 0.1 penalty each
	require.Len(t, summary.Failures, 1)
	assert.Contains(t, summary.Failures[0].Reason, "insufficient data")
	assert.Empty(t, edges.edges)
}

func TestRunOneGameFailureDoesNotAbortSlate(t *testing.T) {
	repos, edges, _, _ := testRepos()

	schedule := scheduleFixture()
	schedule = append(schedule, models.ScheduleRecord{
		ProviderID:  "g2",
		Season:      2025,
		Week:        11,
		League:      models.LeagueNFL,
		HomeTeam:    "Detroit Lions",
		AwayTeam:    "Green Bay Packers",
		KickoffTime: kickoff.Add(3 * time.Hour),
		Venue:       "Ford Field",
		Indoor:      true,
	})

	// only the first game has a market line
	set := testProviderSet(schedule, marketFixture(-1.0))
	runner := testRunner(set, repos)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Games)
	assert.Len(t, edges.edges, 1)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "Detroit Lions", summary.Failures[0].HomeTeam)
}

func TestRunKeepsFreshestMarketPerGame(t *testing.T) {
	repos, _, _, _ := testRepos()

	stale := marketFixture(-7.0)[0]
	stale.RetrievedAt = kickoff.Add(-72 * time.Hour)
	fresh := marketFixture(-1.0)[0]
	fresh.RetrievedAt = kickoff.Add(-2 * time.Hour)

	set := testProviderSet(scheduleFixture(), []models.MarketRecord{stale, fresh})
	runner := testRunner(set, repos)

	summary, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	require.Len(t, summary.Edges, 1)
	assert.Equal(t, -1.0, summary.Edges[0].MarketLine)
	assert.Equal(t, 2, summary.Resolved)
}

func TestRunRecomputationKeepsCanonicalGameIdentity(t *testing.T) {
	games := newMemoryGameRepo()
	edges := &memoryEdgeRepo{}
	repos := &repository.Repositories{
		Game:   games,
		Rating: &memoryRatingRepo{},
		Edge:   edges,
		Stake:  &memoryStakeRepo{},
	}

	set := testProviderSet(scheduleFixture(), marketFixture(-1.0))
	runner := testRunner(set, repos)

	first, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	// odds moved, rerun the same slate
	set.Odds = &fakeOddsProvider{records: marketFixture(-2.5)}
	second, err := runner.Run(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	// the canonical game keeps one identity across runs
	assert.Len(t, games.games, 1)
	require.Len(t, first.Edges, 1)
	require.Len(t, second.Edges, 1)
	assert.Equal(t, first.Edges[0].GameID, second.Edges[0].GameID)

	// every stored edge joins back to a stored game
	for _, e := range edges.edges {
		_, err := games.GetByID(context.Background(), e.GameID)
		require.NoError(t, err, "edge %s references game %s", e.ID, e.GameID)
	}
}
