package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpline/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func testEdge() *models.BettingEdge {
	return &models.BettingEdge{
		ID:            uuid.New(),
		GameID:        uuid.New(),
		Season:        2025,
		Week:          11,
		League:        models.LeagueNFL,
		HomeTeam:      "Kansas City Chiefs",
		AwayTeam:      "Buffalo Bills",
		Side:          models.SideHome,
		PredictedLine: 6.5,
		MarketLine:    3.0,
		EdgePoints:    3.5,
		Tier:          models.TierModerate,
		Confidence:    1.0,
		ComputedAt:    time.Now().UTC(),
	}
}

func TestAuditLoggerEdgeDetected(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	edge := testEdge()
	audit.LogEdgeDetected(edge)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, edge.ID.String(), logEntry["edge_id"])
	assert.Equal(t, "Buffalo Bills @ Kansas City Chiefs", logEntry["matchup"])
	assert.Equal(t, 3.5, logEntry["edge_points"])
}

func TestAuditLoggerEdgeSuppressed(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	edge := testEdge()
	edge.EdgePoints = 12.0
	edge.Suppressed = true
	edge.Tier = models.TierNone
	audit.LogEdgeSuppressed(edge, 10.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, 10.0, logEntry["ceiling"])
}

func TestAuditLoggerUnresolvedGame(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogUnresolvedGame("ext-991", "KC Chefs", "Buffalo", "no candidate above threshold")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ext-991", logEntry["provider_id"])
	assert.Equal(t, "no candidate above threshold", logEntry["reason"])
}
