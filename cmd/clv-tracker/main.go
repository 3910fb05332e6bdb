// Package main provides the entry point for the closing line value tracker.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpline/internal/clv"
	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/database"
	"github.com/yourusername/sharpline/internal/logger"
	"github.com/yourusername/sharpline/internal/models"
	"github.com/yourusername/sharpline/internal/providers"
	"github.com/yourusername/sharpline/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		leagueName = flag.String("league", "nfl", "League to track (nfl or cfb)")
		season     = flag.Int("season", 0, "Season year")
		week       = flag.Int("week", 0, "Week number")
	)
	flag.Parse()

	bootLog := logrus.New()
	bootLog.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		bootLog.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		bootLog.Fatalf("Invalid configuration: %v", err)
	}
	appLog := logger.NewLogger(cfg.App.LogLevel)

	league, err := models.ParseLeague(*leagueName)
	if err != nil {
		appLog.Fatalf("Invalid league: %v", err)
	}
	if *season == 0 || *week == 0 {
		appLog.Fatal("Both --season and --week are required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.Fatalf("Failed to build repositories: %v", err)
	}

	set, err := providers.NewSet(&cfg.Providers, stdlog.New(os.Stderr, "providers: ", stdlog.LstdFlags))
	if err != nil {
		appLog.Fatalf("Failed to build providers: %v", err)
	}

	tracker := clv.NewTracker(repos, set.Odds, appLog)

	captured, err := tracker.CaptureClosing(ctx, league, *season, *week)
	if err != nil {
		appLog.WithError(err).Fatal("Closing line capture failed")
	}
	appLog.WithField("captured", captured).Info("Closing lines captured")

	summary, err := tracker.Summarize(ctx, league, *season, *week)
	if err != nil {
		appLog.WithError(err).Fatal("CLV summary failed")
	}

	appLog.WithFields(logrus.Fields{
		"league":          summary.League,
		"season":          summary.Season,
		"week":            summary.Week,
		"edges_tracked":   summary.EdgesTracked,
		"beat_close":      summary.BeatClose,
		"beat_close_rate": summary.BeatCloseRate(),
		"avg_clv_points":  summary.AvgCLVPoints,
	}).Info("Closing line value summary")
}
