package clv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpline/internal/models"
	"github.com/yourusername/sharpline/internal/repository"
)

var kickoff = time.Date(2025, 11, 16, 21, 25, 0, 0, time.UTC)

type fakeOdds struct {
	records []models.MarketRecord
}

func (f *fakeOdds) FetchMarkets(ctx context.Context, league models.League, season, week int) ([]models.MarketRecord, error) {
	return f.records, nil
}
func (f *fakeOdds) Name() string    { return "odds" }
func (f *fakeOdds) IsEnabled() bool { return true }

type fakeGameRepo struct {
	games []*models.CanonicalGame
}

func (f *fakeGameRepo) Upsert(ctx context.Context, game *models.CanonicalGame) error { return nil }
func (f *fakeGameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CanonicalGame, error) {
	return nil, models.ErrNotFound
}
func (f *fakeGameRepo) GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.CanonicalGame, error) {
	return f.games, nil
}
func (f *fakeGameRepo) GetByKickoffRange(ctx context.Context, league models.League, start, end time.Time) ([]*models.CanonicalGame, error) {
	return nil, nil
}
func (f *fakeGameRepo) UpdateResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	return nil
}

type fakeEdgeRepo struct {
	edges []*models.BettingEdge
}

func (f *fakeEdgeRepo) Insert(ctx context.Context, e *models.BettingEdge) error { return nil }
func (f *fakeEdgeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BettingEdge, error) {
	return nil, models.ErrNotFound
}
func (f *fakeEdgeRepo) GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	return f.edges, nil
}
func (f *fakeEdgeRepo) GetActionableByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	return nil, nil
}

type fakeClosingRepo struct {
	mu      sync.Mutex
	pending []*models.BettingEdge
	lines   map[uuid.UUID]*models.ClosingLine
}

func newFakeClosingRepo() *fakeClosingRepo {
	return &fakeClosingRepo{lines: make(map[uuid.UUID]*models.ClosingLine)}
}

func (f *fakeClosingRepo) Insert(ctx context.Context, line *models.ClosingLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.lines[line.EdgeID]; exists {
		return nil
	}
	f.lines[line.EdgeID] = line
	return nil
}

func (f *fakeClosingRepo) GetByEdgeID(ctx context.Context, edgeID uuid.UUID) (*models.ClosingLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[edgeID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return line, nil
}

func (f *fakeClosingRepo) GetPendingEdges(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.BettingEdge
	for _, e := range f.pending {
		if _, captured := f.lines[e.ID]; !captured {
			out = append(out, e)
		}
	}
	return out, nil
}

func testGame() *models.CanonicalGame {
	home, away := 27, 20
	return &models.CanonicalGame{
		ID:          uuid.New(),
		Season:      2025,
		Week:        11,
		League:      models.LeagueNFL,
		HomeTeam:    "Kansas City Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		Status:      models.GameStatusFinal,
		HomeScore:   &home,
		AwayScore:   &away,
	}
}

func testEdge(game *models.CanonicalGame, side models.Side, marketLine float64) *models.BettingEdge {
	return &models.BettingEdge{
		ID:         uuid.New(),
		GameID:     game.ID,
		Season:     game.Season,
		Week:       game.Week,
		League:     game.League,
		HomeTeam:   game.HomeTeam,
		AwayTeam:   game.AwayTeam,
		Side:       side,
		MarketLine: marketLine,
		EdgePoints: 3.0,
		Tier:       models.TierModerate,
		ComputedAt: kickoff.Add(-72 * time.Hour),
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestCaptureClosingAttachesLineAndFinalMargin(t *testing.T) {
	game := testGame()
	e := testEdge(game, models.SideHome, -1.0)

	closing := newFakeClosingRepo()
	closing.pending = []*models.BettingEdge{e}

	repos := &repository.Repositories{
		Game:        &fakeGameRepo{games: []*models.CanonicalGame{game}},
		Edge:        &fakeEdgeRepo{edges: []*models.BettingEdge{e}},
		ClosingLine: closing,
	}
	odds := &fakeOdds{records: []models.MarketRecord{{
		ProviderID:  "m1",
		Book:        "pinnacle",
		HomeTeam:    "KC Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		HomeSpread:  -3.5,
		RetrievedAt: kickoff,
	}}}

	tracker := NewTracker(repos, odds, testLogger())

	captured, err := tracker.CaptureClosing(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, captured)

	line, err := closing.GetByEdgeID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, -3.5, line.ClosingSpread)
	require.NotNil(t, line.FinalMargin)
	assert.Equal(t, 7.0, *line.FinalMargin)

	// re-run is a no-op
	captured, err = tracker.CaptureClosing(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)
	assert.Zero(t, captured)
}

func TestCaptureClosingPrefersFresherStreamedLine(t *testing.T) {
	game := testGame()
	e := testEdge(game, models.SideHome, -1.0)

	closing := newFakeClosingRepo()
	closing.pending = []*models.BettingEdge{e}

	repos := &repository.Repositories{
		Game:        &fakeGameRepo{games: []*models.CanonicalGame{game}},
		Edge:        &fakeEdgeRepo{edges: []*models.BettingEdge{e}},
		ClosingLine: closing,
	}
	odds := &fakeOdds{records: []models.MarketRecord{{
		ProviderID:  "m1",
		Book:        "pinnacle",
		HomeTeam:    "KC Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		HomeSpread:  -3.5,
		RetrievedAt: kickoff.Add(-time.Hour),
	}}}

	tracker := NewTracker(repos, odds, testLogger())

	// the stream pushed a later move after the snapshot was taken
	require.NoError(t, tracker.Ingest(models.MarketRecord{
		ProviderID:  "m1",
		Book:        "pinnacle",
		HomeTeam:    "KC Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		HomeSpread:  -4.0,
		RetrievedAt: kickoff,
	}))
	// a stale push for the same book never displaces the newer record
	require.NoError(t, tracker.Ingest(models.MarketRecord{
		ProviderID:  "m1",
		Book:        "pinnacle",
		HomeTeam:    "KC Chiefs",
		AwayTeam:    "Buffalo Bills",
		KickoffTime: kickoff,
		HomeSpread:  -2.0,
		RetrievedAt: kickoff.Add(-2 * time.Hour),
	}))

	captured, err := tracker.CaptureClosing(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, captured)

	line, err := closing.GetByEdgeID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, -4.0, line.ClosingSpread)
	assert.Equal(t, kickoff, line.ClosedAt)
}

func TestSummarizeComputesCLVBySide(t *testing.T) {
	game := testGame()
	// home edge recorded at -1.0, close -3.5: home side lost 2.5 points of value
	homeEdge := testEdge(game, models.SideHome, -1.0)
	// away edge recorded at +6.0, close +3.5: away side gained 2.5 points
	awayEdge := testEdge(game, models.SideAway, 6.0)

	closing := newFakeClosingRepo()
	closing.lines[homeEdge.ID] = &models.ClosingLine{
		ID: uuid.New(), EdgeID: homeEdge.ID, ClosingSpread: -3.5, ClosedAt: kickoff,
	}
	closing.lines[awayEdge.ID] = &models.ClosingLine{
		ID: uuid.New(), EdgeID: awayEdge.ID, ClosingSpread: 3.5, ClosedAt: kickoff,
	}

	repos := &repository.Repositories{
		Game:        &fakeGameRepo{games: []*models.CanonicalGame{game}},
		Edge:        &fakeEdgeRepo{edges: []*models.BettingEdge{homeEdge, awayEdge}},
		ClosingLine: closing,
	}
	tracker := NewTracker(repos, &fakeOdds{}, testLogger())

	summary, err := tracker.Summarize(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.EdgesTracked)
	assert.Equal(t, 1, summary.BeatClose)
	assert.InDelta(t, 0.5, summary.BeatCloseRate(), 1e-9)
	assert.InDelta(t, 0.0, summary.AvgCLVPoints, 1e-9)
}

func TestSummarizeSkipsEdgesWithoutClosingLine(t *testing.T) {
	game := testGame()
	e := testEdge(game, models.SideHome, -1.0)

	repos := &repository.Repositories{
		Game:        &fakeGameRepo{games: []*models.CanonicalGame{game}},
		Edge:        &fakeEdgeRepo{edges: []*models.BettingEdge{e}},
		ClosingLine: newFakeClosingRepo(),
	}
	tracker := NewTracker(repos, &fakeOdds{}, testLogger())

	summary, err := tracker.Summarize(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)
	assert.Zero(t, summary.EdgesTracked)
	assert.Zero(t, summary.BeatCloseRate())
}
