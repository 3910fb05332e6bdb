// Package clv captures closing lines for recorded edges and measures
// closing line value, the engine's outcome-independent accuracy signal.
package clv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpline/internal/models"
	"github.com/yourusername/sharpline/internal/providers"
	"github.com/yourusername/sharpline/internal/repository"
	"github.com/yourusername/sharpline/internal/resolver"
)

// Tracker attaches final pre-kickoff lines to recorded edges
type Tracker struct {
	repos *repository.Repositories
	odds  providers.OddsProvider
	log   *logrus.Logger

	mu       sync.Mutex
	streamed map[string]models.MarketRecord
}

// NewTracker wires a closing line tracker
func NewTracker(repos *repository.Repositories, odds providers.OddsProvider, log *logrus.Logger) *Tracker {
	return &Tracker{
		repos:    repos,
		odds:     odds,
		log:      log,
		streamed: make(map[string]models.MarketRecord),
	}
}

// Ingest accepts a market record pushed from the live odds stream. The
// freshest record per provider game and book is kept and merged into the
// next capture, so a line that moved after the last snapshot still closes
// at its streamed value. Safe for concurrent use; it is the stream's
// market handler in serve mode.
func (t *Tracker) Ingest(record models.MarketRecord) error {
	key := record.ProviderID + "/" + record.Book
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.streamed[key]; ok && existing.RetrievedAt.After(record.RetrievedAt) {
		return nil
	}
	t.streamed[key] = record
	return nil
}

// streamedRecords snapshots the buffered stream records for a capture pass
func (t *Tracker) streamedRecords() []models.MarketRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.MarketRecord, 0, len(t.streamed))
	for _, r := range t.streamed {
		out = append(out, r)
	}
	return out
}

// CaptureClosing fetches the current market snapshot for a scoring period,
// merges in any fresher records buffered from the live stream, and attaches
// the result as the closing line to every recorded edge that does not have
// one yet. Run it at or after kickoff; a re-run is a no-op for already
// captured edges.
func (t *Tracker) CaptureClosing(ctx context.Context, league models.League, season, week int) (int, error) {
	pending, err := t.repos.ClosingLine.GetPendingEdges(ctx, league, season, week)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending edges: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	games, err := t.repos.Game.GetByWeek(ctx, league, season, week)
	if err != nil {
		return 0, fmt.Errorf("failed to load games: %w", err)
	}

	markets, err := t.odds.FetchMarkets(ctx, league, season, week)
	if err != nil {
		return 0, fmt.Errorf("closing odds fetch failed: %w", err)
	}
	markets = append(markets, t.streamedRecords()...)

	res := resolver.New(games, resolver.NewAliasTable(), resolver.DefaultDateTolerance)
	closingByGame := make(map[uuid.UUID]*models.MarketRecord)
	for i := range markets {
		record := &markets[i]
		game, err := res.Resolve(record)
		if err != nil {
			continue
		}
		if existing, ok := closingByGame[game.ID]; !ok || record.RetrievedAt.After(existing.RetrievedAt) {
			closingByGame[game.ID] = record
		}
	}

	gameByID := make(map[uuid.UUID]*models.CanonicalGame, len(games))
	for _, g := range games {
		gameByID[g.ID] = g
	}

	captured := 0
	for _, e := range pending {
		market, ok := closingByGame[e.GameID]
		if !ok {
			t.log.WithFields(logrus.Fields{
				"edge_id":   e.ID,
				"home_team": e.HomeTeam,
				"away_team": e.AwayTeam,
			}).Warn("No closing line found for edge")
			continue
		}

		line := &models.ClosingLine{
			ID:            uuid.New(),
			EdgeID:        e.ID,
			ClosingSpread: market.HomeSpread,
			Book:          market.Book,
			ClosedAt:      market.RetrievedAt,
		}
		if game, ok := gameByID[e.GameID]; ok {
			if margin, final := game.FinalMargin(); final {
				line.FinalMargin = &margin
			}
		}

		if err := t.repos.ClosingLine.Insert(ctx, line); err != nil {
			return captured, fmt.Errorf("failed to attach closing line: %w", err)
		}
		captured++
	}

	return captured, nil
}

// Summary aggregates closing line value for one scoring period
type Summary struct {
	League       models.League
	Season       int
	Week         int
	EdgesTracked int
	BeatClose    int
	AvgCLVPoints float64
	GeneratedAt  time.Time
}

// BeatCloseRate returns the fraction of tracked edges whose number beat the
// close
func (s *Summary) BeatCloseRate() float64 {
	if s.EdgesTracked == 0 {
		return 0
	}
	return float64(s.BeatClose) / float64(s.EdgesTracked)
}

// Summarize computes CLV across every edge in the period that has a closing
// line attached
func (t *Tracker) Summarize(ctx context.Context, league models.League, season, week int) (*Summary, error) {
	edges, err := t.repos.Edge.GetByWeek(ctx, league, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}

	summary := &Summary{
		League:      league,
		Season:      season,
		Week:        week,
		GeneratedAt: time.Now().UTC(),
	}

	var totalCLV float64
	for _, e := range edges {
		line, err := t.repos.ClosingLine.GetByEdgeID(ctx, e.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load closing line: %w", err)
		}

		clv := line.CLVPoints(e)
		totalCLV += clv
		summary.EdgesTracked++
		if line.BeatClose(e) {
			summary.BeatClose++
		}
	}

	if summary.EdgesTracked > 0 {
		summary.AvgCLVPoints = totalCLV / float64(summary.EdgesTracked)
	}

	return summary, nil
}
