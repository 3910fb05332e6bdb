// Package main provides the entry point for the edge detection CLI.
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharpline/internal/clv"
	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/database"
	"github.com/yourusername/sharpline/internal/health"
	"github.com/yourusername/sharpline/internal/logger"
	"github.com/yourusername/sharpline/internal/metrics"
	"github.com/yourusername/sharpline/internal/models"
	"github.com/yourusername/sharpline/internal/pipeline"
	"github.com/yourusername/sharpline/internal/providers"
	"github.com/yourusername/sharpline/internal/publish"
	"github.com/yourusername/sharpline/internal/repository"
	"github.com/yourusername/sharpline/internal/scheduler"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig  string
	flagLeague  string
	flagSeason  int
	flagWeek    int
	flagMinEdge float64
	flagOutput  string
)

func main() {
	root := &cobra.Command{
		Use:          "detect-edges",
		Short:        "Detect betting edges for one league scoring period",
		SilenceUsage: true,
		RunE:         runDetect,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "config/config.yaml", "Path to config file")
	root.Flags().StringVar(&flagLeague, "league", "nfl", "League to score (nfl or cfb)")
	root.Flags().IntVar(&flagSeason, "season", 0, "Season year (0 derives from current date)")
	root.Flags().IntVar(&flagWeek, "week", 0, "Week number (0 derives from current date)")
	root.Flags().Float64Var(&flagMinEdge, "min-edge", 0, "Override minimum edge points for stake sizing")
	root.Flags().StringVar(&flagOutput, "output", "", "Override edge output destination (stdout or file path)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled weekly scoring cycle with health and metrics endpoints",
		RunE:  runServe,
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, appLog, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}

	league, err := models.ParseLeague(flagLeague)
	if err != nil {
		return err
	}
	season, week := resolvePeriod(flagSeason, flagWeek)

	if cmd.Flags().Changed("min-edge") {
		cfg.Staking.MinEdgePoints = flagMinEdge
	}
	if flagOutput != "" {
		cfg.Publish.Output = flagOutput
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	set, err := providers.NewSet(&cfg.Providers, stdlog.New(os.Stderr, "providers: ", stdlog.LstdFlags))
	if err != nil {
		return err
	}

	metrics.InitRegistry()
	metrics.SetBankroll(cfg.Staking.Bankroll)

	runner := pipeline.NewRunner(cfg, set, repos, appLog)
	summary, err := runner.Run(ctx, league, season, week)
	if err != nil {
		appLog.WithError(err).Error("Pipeline run failed")
		return err
	}

	if err := publishSummary(ctx, cfg, appLog, summary); err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"league":     summary.League,
		"season":     summary.Season,
		"week":       summary.Week,
		"games":      summary.Games,
		"resolved":   summary.Resolved,
		"edges":      len(summary.ActionableEdges()),
		"suppressed": len(summary.Edges) - len(summary.ActionableEdges()),
		"failures":   len(summary.Failures),
	}).Info("Edge detection completed")

	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, appLog, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	set, err := providers.NewSet(&cfg.Providers, stdlog.New(os.Stderr, "providers: ", stdlog.LstdFlags))
	if err != nil {
		return err
	}

	metrics.InitRegistry()
	metrics.SetBankroll(cfg.Staking.Bankroll)

	runner := pipeline.NewRunner(cfg, set, repos, appLog)

	sched := scheduler.NewScheduler(appLog)
	job := func(ctx context.Context, league models.League) error {
		season, week := resolvePeriod(0, 0)
		summary, err := runner.Run(ctx, league, season, week)
		if err != nil {
			return err
		}
		return publishSummary(ctx, cfg, appLog, summary)
	}
	tracker := clv.NewTracker(repos, set.Odds, appLog)
	if stream := providers.NewStream(&cfg.Providers.Odds, stdlog.New(os.Stderr, "oddsfeed: ", stdlog.LstdFlags)); stream != nil {
		stream.OnMarket(tracker.Ingest)
		defer stream.Close()
		go func() {
			if err := stream.Listen(ctx); err != nil && ctx.Err() == nil {
				appLog.WithError(err).Error("Odds stream terminated")
			}
		}()
	}
	capture := func(ctx context.Context, league models.League) error {
		season, week := resolvePeriod(0, 0)
		_, err := tracker.CaptureClosing(ctx, league, season, week)
		return err
	}
	for _, league := range []models.League{models.LeagueNFL, models.LeagueCFB} {
		if err := sched.ScheduleWeeklyRun(cfg.Schedule.WeeklyRun, league, job); err != nil {
			return err
		}
		if err := sched.ScheduleClosingCapture(cfg.Schedule.ClosingCaptureMinutes, league, capture); err != nil {
			return err
		}
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Port:        fmt.Sprintf("%d", cfg.Metrics.HealthPort),
		Logger:      appLog,
		DB:          db,
		Jobs:        sched,
	})
	if err := healthSrv.Start(ctx); err != nil {
		return err
	}
	healthSrv.SetReady(true)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg, appLog)
	}

	appLog.WithFields(logrus.Fields{
		"cron":     cfg.Schedule.WeeklyRun,
		"next_run": sched.GetNextRun().UTC().Format(time.RFC3339),
	}).Info("Serve mode started")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	return nil
}

func serveMetrics(cfg *config.Config, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	appLog.WithField("addr", addr).Info("Metrics server starting")
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		appLog.WithError(err).Error("Metrics server error")
	}
}

// publishSummary writes every detected edge with its paired stake to the
// configured sinks. Suppressed edges are included; the record carries the
// suppression flag so downstream consumers can filter
func publishSummary(ctx context.Context, cfg *config.Config, appLog *logrus.Logger, summary *pipeline.RunSummary) error {
	var writer *publish.NDJSONWriter
	switch cfg.Publish.Output {
	case "", "stdout":
		writer = publish.NewNDJSONWriter(os.Stdout)
	default:
		f, err := os.Create(cfg.Publish.Output)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer f.Close()
		writer = publish.NewNDJSONWriter(f)
	}

	if err := writer.PublishAll(summary.Edges, summary.Stakes); err != nil {
		return fmt.Errorf("failed to publish edges: %w", err)
	}

	if cfg.Publish.Redis.Enabled {
		pub, err := publish.NewRedisPublisher(ctx, cfg.Publish.Redis)
		if err != nil {
			appLog.WithError(err).Error("Redis publisher unavailable, edges written to primary sink only")
			return nil
		}
		defer pub.Close()
		if err := pub.PublishAll(ctx, summary.Edges, summary.Stakes); err != nil {
			appLog.WithError(err).Error("Failed to publish edges to Redis stream")
		}
	}

	return nil
}

func loadConfig(path string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	return cfg, appLog, nil
}

// resolvePeriod fills in season and week when either is zero. The season
// rolls over in March; weeks count from the first Thursday of September,
// clamped to week 1 before the season starts
func resolvePeriod(season, week int) (int, int) {
	now := time.Now().UTC()
	if season == 0 {
		season = now.Year()
		if now.Month() < time.March {
			season--
		}
	}
	if week == 0 {
		start := firstThursdayOfSeptember(season)
		if now.Before(start) {
			week = 1
		} else {
			week = int(now.Sub(start)/(7*24*time.Hour)) + 1
		}
	}
	return season, week
}

func firstThursdayOfSeptember(year int) time.Time {
	t := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Thursday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
