package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharpline/internal/models"
)

// GameRepository defines persistence for canonical games. Upsert adopts the
// stored identity: when the natural key already exists, the game's ID is
// overwritten with the id of the existing row
type GameRepository interface {
	Upsert(ctx context.Context, game *models.CanonicalGame) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CanonicalGame, error)
	GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.CanonicalGame, error)
	GetByKickoffRange(ctx context.Context, league models.League, start, end time.Time) ([]*models.CanonicalGame, error)
	UpdateResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error
}

// RatingRepository defines persistence for versioned team rating snapshots.
// Snapshots are insert-only; a retrieval always resolves the latest version
// for the requested scoring period.
type RatingRepository interface {
	Insert(ctx context.Context, snapshot *models.TeamRatingSnapshot) error
	GetLatest(ctx context.Context, league models.League, team string, season, week int) (*models.TeamRatingSnapshot, error)
	GetWeek(ctx context.Context, league models.League, season, week int) ([]*models.TeamRatingSnapshot, error)
	GetHistory(ctx context.Context, league models.League, team string, season int) ([]*models.TeamRatingSnapshot, error)
}

// EdgeRepository defines append-only persistence for edge records
type EdgeRepository interface {
	Insert(ctx context.Context, edge *models.BettingEdge) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BettingEdge, error)
	GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error)
	GetActionableByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error)
}

// StakeRepository defines persistence for stake recommendations
type StakeRepository interface {
	Insert(ctx context.Context, rec *models.StakeRecommendation) error
	GetByEdgeID(ctx context.Context, edgeID uuid.UUID) (*models.StakeRecommendation, error)
	GetBets(ctx context.Context, since time.Time) ([]*models.StakeRecommendation, error)
}

// ClosingLineRepository defines persistence for closing lines attached to
// recorded edges
type ClosingLineRepository interface {
	Insert(ctx context.Context, line *models.ClosingLine) error
	GetByEdgeID(ctx context.Context, edgeID uuid.UUID) (*models.ClosingLine, error)
	GetPendingEdges(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error)
}
