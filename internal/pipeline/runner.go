// Package pipeline orchestrates one edge detection run: schedule ingestion,
// identity resolution, rating computation, contextual adjustment, edge
// detection, and stake sizing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpline/internal/adjust"
	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/edge"
	"github.com/yourusername/sharpline/internal/logger"
	"github.com/yourusername/sharpline/internal/metrics"
	"github.com/yourusername/sharpline/internal/models"
	"github.com/yourusername/sharpline/internal/providers"
	"github.com/yourusername/sharpline/internal/rating"
	"github.com/yourusername/sharpline/internal/repository"
	"github.com/yourusername/sharpline/internal/resolver"
	"github.com/yourusername/sharpline/internal/stake"
)

// Runner executes the weekly pipeline for one league
type Runner struct {
	cfg       *config.Config
	providers *providers.Set
	repos     *repository.Repositories
	log       *logrus.Logger
	audit     *logger.AuditLogger
}

// NewRunner wires a pipeline runner
func NewRunner(cfg *config.Config, set *providers.Set, repos *repository.Repositories, log *logrus.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		providers: set,
		repos:     repos,
		log:       log,
		audit:     logger.NewAuditLogger(log),
	}
}

// GameFailure records one game that could not be processed. A failed game
// never aborts the slate.
type GameFailure struct {
	HomeTeam string
	AwayTeam string
	Reason   string
}

// RunSummary reports the shape of one completed run
type RunSummary struct {
	League     models.League
	Season     int
	Week       int
	Games      int
	Resolved   int
	Unresolved int
	Edges      []*models.BettingEdge
	Stakes     []*models.StakeRecommendation
	Failures   []GameFailure
	Duration   time.Duration
}

// ActionableEdges returns the detected edges that survived suppression and
// classification
func (s *RunSummary) ActionableEdges() []*models.BettingEdge {
	var out []*models.BettingEdge
	for _, e := range s.Edges {
		if e.Actionable() {
			out = append(out, e)
		}
	}
	return out
}

// Run executes the full pipeline for one league scoring period.
//
// An empty schedule is a structural failure and aborts the run; everything
// downstream of the schedule degrades per game instead.
func (r *Runner) Run(ctx context.Context, league models.League, season, week int) (*RunSummary, error) {
	start := time.Now()
	leagueCfg, err := r.cfg.League(string(league))
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{League: league, Season: season, Week: week}

	schedule, err := r.providers.Schedule.FetchSchedule(ctx, league, season, week)
	if err != nil {
		metrics.RecordProviderError(r.providers.Schedule.Name())
		return nil, fmt.Errorf("schedule fetch failed: %w", err)
	}
	if len(schedule) == 0 {
		return nil, fmt.Errorf("%w: %s season %d week %d", models.ErrNoSchedule, league, season, week)
	}

	games := make([]*models.CanonicalGame, 0, len(schedule))
	for i := range schedule {
		game := canonicalFromSchedule(&schedule[i])
		if err := r.repos.Game.Upsert(ctx, game); err != nil {
			return nil, fmt.Errorf("game upsert failed: %w", err)
		}
		games = append(games, game)
	}
	summary.Games = len(games)

	markets, err := r.providers.Odds.FetchMarkets(ctx, league, season, week)
	if err != nil {
		metrics.RecordProviderError(r.providers.Odds.Name())
		return nil, fmt.Errorf("odds fetch failed: %w", err)
	}

	// Index once per run; every market record resolves against the same
	// snapshot of the slate.
	tolerance := time.Duration(r.cfg.Pipeline.DateToleranceHours) * time.Hour
	res := resolver.New(games, resolver.NewAliasTable(), tolerance)

	marketsByGame := r.resolveMarkets(res, markets, summary)

	r.processGames(ctx, leagueCfg, games, marketsByGame, summary)

	sort.Slice(summary.Edges, func(i, j int) bool {
		return summary.Edges[i].Magnitude() > summary.Edges[j].Magnitude()
	})

	summary.Duration = time.Since(start)
	metrics.RecordRun(summary.Games, len(summary.ActionableEdges()), summary.Duration.Seconds())
	metrics.ConfiguredBankroll.Set(r.cfg.Staking.Bankroll)

	r.log.WithFields(logrus.Fields{
		"league":     league,
		"season":     season,
		"week":       week,
		"games":      summary.Games,
		"resolved":   summary.Resolved,
		"unresolved": summary.Unresolved,
		"edges":      len(summary.ActionableEdges()),
		"failures":   len(summary.Failures),
		"duration":   summary.Duration.String(),
	}).Info("Pipeline run complete")

	return summary, nil
}

// resolveMarkets maps each market record onto a canonical game, keeping the
// freshest record per game. Unresolved records are logged and counted, never
// guessed at.
func (r *Runner) resolveMarkets(res *resolver.Resolver, markets []models.MarketRecord, summary *RunSummary) map[uuid.UUID]*models.MarketRecord {
	byGame := make(map[uuid.UUID]*models.MarketRecord)

	for i := range markets {
		record := &markets[i]
		game, err := res.Resolve(record)
		if err != nil {
			summary.Unresolved++
			var unresolved *resolver.UnresolvedError
			if errors.As(err, &unresolved) {
				metrics.RecordUnresolved(string(unresolved.Reason))
				r.audit.LogUnresolvedGame(record.ProviderID, record.HomeTeam, record.AwayTeam, string(unresolved.Reason))
			}
			continue
		}

		summary.Resolved++
		metrics.RecordResolved()
		if existing, ok := byGame[game.ID]; !ok || record.RetrievedAt.After(existing.RetrievedAt) {
			byGame[game.ID] = record
		}
	}

	return byGame
}

// processGames fans games out across a bounded worker pool. Each game's
// provider fetches, rating math, and persistence are isolated; one game's
// failure lands in the summary, not in the other workers.
func (r *Runner) processGames(ctx context.Context, leagueCfg *config.LeagueConfig, games []*models.CanonicalGame, marketsByGame map[uuid.UUID]*models.MarketRecord, summary *RunSummary) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, r.cfg.Pipeline.MaxConcurrentGames)
	)

	sizer := stake.NewSizer(r.cfg.Staking, leagueCfg)
	detector := edge.NewDetector(leagueCfg)

	for _, game := range games {
		market, ok := marketsByGame[game.ID]
		if !ok {
			mu.Lock()
			summary.Failures = append(summary.Failures, GameFailure{
				HomeTeam: game.HomeTeam,
				AwayTeam: game.AwayTeam,
				Reason:   "no resolvable market line",
			})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(game *models.CanonicalGame, market *models.MarketRecord) {
			defer wg.Done()
			defer func() { <-sem }()

			detected, rec, err := r.processGame(ctx, leagueCfg, detector, sizer, game, market)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failures = append(summary.Failures, GameFailure{
					HomeTeam: game.HomeTeam,
					AwayTeam: game.AwayTeam,
					Reason:   err.Error(),
				})
				return
			}
			summary.Edges = append(summary.Edges, detected)
			if rec != nil {
				summary.Stakes = append(summary.Stakes, rec)
			}
		}(game, market)
	}

	wg.Wait()
}

// gameInputs carries everything the per-game fetch stage produced
type gameInputs struct {
	homeStats    *models.TeamStatRecord
	awayStats    *models.TeamStatRecord
	homeInjuries []models.InjuryRecord
	awayInjuries []models.InjuryRecord
	weather      *models.WeatherRecord
	confidence   float64
	sources      []string
}

func (r *Runner) processGame(ctx context.Context, leagueCfg *config.LeagueConfig, detector *edge.Detector, sizer *stake.Sizer, game *models.CanonicalGame, market *models.MarketRecord) (*models.BettingEdge, *models.StakeRecommendation, error) {
	inputs := r.fetchGameInputs(ctx, game)

	if inputs.confidence < r.cfg.Pipeline.MinConfidence {
		return nil, nil, fmt.Errorf("insufficient data: confidence %.2f below floor %.2f", inputs.confidence, r.cfg.Pipeline.MinConfidence)
	}

	calc := rating.NewCalculator(leagueCfg)
	agg := rating.NewAggregator(leagueCfg)

	homeSnapshot := agg.Aggregate(game.HomeTeam, game.League, game.Season, game.Week,
		calc.All(inputs.homeStats, inputs.homeInjuries), nil)
	awaySnapshot := agg.Aggregate(game.AwayTeam, game.League, game.Season, game.Week,
		calc.All(inputs.awayStats, inputs.awayInjuries), nil)

	for _, snapshot := range []*models.TeamRatingSnapshot{homeSnapshot, awaySnapshot} {
		if snapshot.Saturated {
			metrics.RecordSaturated()
			r.audit.LogRatingSaturated(snapshot, leagueCfg.RatingMin, leagueCfg.RatingMax)
		}
		if snapshot.Outlier {
			metrics.RecordOutlier()
			r.audit.LogRatingOutlier(snapshot, leagueCfg.OutlierThreshold)
		}
		if err := r.repos.Rating.Insert(ctx, snapshot); err != nil {
			return nil, nil, fmt.Errorf("rating snapshot insert failed: %w", err)
		}
	}

	weatherAdj := adjust.Weather(game, inputs.weather)
	situationalAdj := adjust.Situational(r.situationalInputs(ctx, game))

	detected := detector.Detect(edge.Input{
		Game:        game,
		HomeRating:  homeSnapshot,
		AwayRating:  awaySnapshot,
		Weather:     weatherAdj,
		Situational: situationalAdj,
		Market:      market,
		Confidence:  inputs.confidence,
		DataSources: inputs.sources,
	})

	if err := r.repos.Edge.Insert(ctx, detected); err != nil {
		return nil, nil, fmt.Errorf("edge insert failed: %w", err)
	}

	if detected.Suppressed {
		metrics.RecordSuppressed()
		r.audit.LogEdgeSuppressed(detected, leagueCfg.SuppressionCeiling)
	} else if detected.Actionable() {
		metrics.RecordEdge(string(detected.League), string(detected.Tier))
		r.audit.LogEdgeDetected(detected)
	}

	rec := sizer.Size(detected, market)
	if err := r.repos.Stake.Insert(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("stake insert failed: %w", err)
	}
	if rec.IsBet() {
		metrics.RecordStake()
		r.audit.LogStakeRecommendation(rec)
	}

	return detected, rec, nil
}

// fetchGameInputs pulls weather, injuries, and team stats concurrently, each
// under its own timeout. A provider failure degrades the game to partial
// data with a confidence penalty instead of failing it.
func (r *Runner) fetchGameInputs(ctx context.Context, game *models.CanonicalGame) *gameInputs {
	timeout := time.Duration(r.cfg.Pipeline.ProviderTimeoutSeconds) * time.Second
	penalty := r.cfg.Pipeline.ConfidencePenalty

	inputs := &gameInputs{
		confidence: 1.0,
		sources:    []string{"schedule", "odds"},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	fetch := func(provider string, fn func(ctx context.Context) error) {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		err := fn(fetchCtx)
		metrics.RecordProviderFetch(provider, time.Since(start).Seconds())

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			metrics.RecordProviderError(provider)
			inputs.confidence -= penalty
			r.log.WithFields(logrus.Fields{
				"provider":  provider,
				"home_team": game.HomeTeam,
				"away_team": game.AwayTeam,
			}).WithError(err).Warn("Provider fetch failed, continuing with partial data")
			return
		}
		inputs.sources = append(inputs.sources, provider)
	}

	wg.Add(5)
	go fetch("weather", func(ctx context.Context) error {
		wx, err := r.providers.Weather.FetchForecast(ctx, game.Venue, game.KickoffTime)
		if err != nil {
			return err
		}
		inputs.weather = wx
		return nil
	})
	go fetch("injury_home", func(ctx context.Context) error {
		reports, err := r.providers.Injury.FetchInjuries(ctx, game.League, game.HomeTeam)
		if err != nil {
			return err
		}
		inputs.homeInjuries = reports
		return nil
	})
	go fetch("injury_away", func(ctx context.Context) error {
		reports, err := r.providers.Injury.FetchInjuries(ctx, game.League, game.AwayTeam)
		if err != nil {
			return err
		}
		inputs.awayInjuries = reports
		return nil
	})
	go fetch("stats_home", func(ctx context.Context) error {
		stats, err := r.providers.Stats.FetchTeamStats(ctx, game.League, game.HomeTeam, game.Season, game.Week)
		if err != nil {
			return err
		}
		inputs.homeStats = stats
		return nil
	})
	go fetch("stats_away", func(ctx context.Context) error {
		stats, err := r.providers.Stats.FetchTeamStats(ctx, game.League, game.AwayTeam, game.Season, game.Week)
		if err != nil {
			return err
		}
		inputs.awayStats = stats
		return nil
	})

	wg.Wait()

	if inputs.confidence < 0 {
		inputs.confidence = 0
	}
	return inputs
}

// situationalInputs derives rest days from each team's previous game. Travel
// and rivalry signals need data no current provider carries, so they stay at
// their neutral values.
func (r *Runner) situationalInputs(ctx context.Context, game *models.CanonicalGame) adjust.SituationalInputs {
	inputs := adjust.SituationalInputs{
		HomeRestDays: 7,
		AwayRestDays: 7,
	}

	lookback := game.KickoffTime.Add(-21 * 24 * time.Hour)
	previous, err := r.repos.Game.GetByKickoffRange(ctx, game.League, lookback, game.KickoffTime.Add(-time.Hour))
	if err != nil {
		return inputs
	}

	for _, prior := range previous {
		days := int(game.KickoffTime.Sub(prior.KickoffTime).Hours() / 24)
		if prior.HomeTeam == game.HomeTeam || prior.AwayTeam == game.HomeTeam {
			if days < inputs.HomeRestDays {
				inputs.HomeRestDays = days
			}
		}
		if prior.HomeTeam == game.AwayTeam || prior.AwayTeam == game.AwayTeam {
			if days < inputs.AwayRestDays {
				inputs.AwayRestDays = days
			}
		}
	}

	return inputs
}

func canonicalFromSchedule(rec *models.ScheduleRecord) *models.CanonicalGame {
	now := time.Now().UTC()
	return &models.CanonicalGame{
		ID:          uuid.New(),
		Season:      rec.Season,
		Week:        rec.Week,
		League:      rec.League,
		HomeTeam:    rec.HomeTeam,
		AwayTeam:    rec.AwayTeam,
		KickoffTime: rec.KickoffTime,
		Venue:       rec.Venue,
		Indoor:      rec.Indoor,
		Status:      models.GameStatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
