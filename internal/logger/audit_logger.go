// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpline/internal/models"
)

// AuditLogger provides dedicated audit trail logging. Every suppressed or
// low-confidence result passes through here so an operator can reconstruct
// why a game produced, or did not produce, a recommendation.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogEdgeDetected logs a classified betting edge.
func (al *AuditLogger) LogEdgeDetected(edge *models.BettingEdge) {
	al.WithFields(logrus.Fields{
		"edge_id":        edge.ID,
		"game_id":        edge.GameID,
		"matchup":        edge.AwayTeam + " @ " + edge.HomeTeam,
		"side":           edge.Side,
		"predicted_line": edge.PredictedLine,
		"market_line":    edge.MarketLine,
		"edge_points":    edge.EdgePoints,
		"tier":           edge.Tier,
		"suppressed":     edge.Suppressed,
		"confidence":     edge.Confidence,
	}).Info("Edge detected")
}

// LogEdgeSuppressed logs an edge held back by the market-respect guard.
func (al *AuditLogger) LogEdgeSuppressed(edge *models.BettingEdge, ceiling float64) {
	al.WithFields(logrus.Fields{
		"edge_id":     edge.ID,
		"game_id":     edge.GameID,
		"edge_points": edge.EdgePoints,
		"ceiling":     ceiling,
		"reasons":     edge.Reasons,
	}).Warn("Edge suppressed by market-respect ceiling")
}

// LogUnresolvedGame logs a market record the resolver could not map.
func (al *AuditLogger) LogUnresolvedGame(providerID, homeTeam, awayTeam, reason string) {
	al.WithFields(logrus.Fields{
		"provider_id": providerID,
		"home_team":   homeTeam,
		"away_team":   awayTeam,
		"reason":      reason,
	}).Warn("Unresolved market record skipped")
}

// LogRatingSaturated logs a rating clamped at a league bound.
func (al *AuditLogger) LogRatingSaturated(snapshot *models.TeamRatingSnapshot, min, max float64) {
	al.WithFields(logrus.Fields{
		"team":       snapshot.Team,
		"league":     snapshot.League,
		"week":       snapshot.Week,
		"rating":     snapshot.OverallRating,
		"rating_min": min,
		"rating_max": max,
	}).Info("Rating saturated at league bound")
}

// LogRatingOutlier logs a snapshot flagged against the external comparison.
func (al *AuditLogger) LogRatingOutlier(snapshot *models.TeamRatingSnapshot, threshold float64) {
	diff, _ := snapshot.ExternalDifferential()
	al.WithFields(logrus.Fields{
		"team":         snapshot.Team,
		"league":       snapshot.League,
		"week":         snapshot.Week,
		"rating":       snapshot.OverallRating,
		"differential": diff,
		"threshold":    threshold,
	}).Warn("Rating flagged as outlier against external comparison")
}

// LogStakeRecommendation logs a sized stake, including the unclamped Kelly
// fraction for cap auditing.
func (al *AuditLogger) LogStakeRecommendation(rec *models.StakeRecommendation) {
	al.WithFields(logrus.Fields{
		"edge_id":                  rec.EdgeID,
		"win_probability":          rec.WinProbabilityEstimate,
		"decimal_odds":             rec.DecimalOdds,
		"unclamped_kelly_fraction": rec.UnclampedKellyFraction,
		"fraction_of_bankroll":     rec.FractionOfBankroll,
		"stake_amount":             rec.StakeAmount.String(),
	}).Info("Stake recommendation recorded")
}
