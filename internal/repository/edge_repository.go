package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharpline/internal/database"
	"github.com/yourusername/sharpline/internal/models"
)

const errScanEdge = "failed to scan edge: %w"

const edgeColumns = `
	id, game_id, season, week, league, home_team, away_team, side,
	predicted_line, market_line, book, edge_points, tier, suppressed,
	confidence, reasons, data_sources, computed_at`

// PostgresEdgeRepository implements EdgeRepository for PostgreSQL
type PostgresEdgeRepository struct {
	db *database.DB
}

// NewPostgresEdgeRepository creates a new edge repository
func NewPostgresEdgeRepository(db *database.DB) EdgeRepository {
	return &PostgresEdgeRepository{db: db}
}

// Insert appends an edge record. Records are immutable; a recomputation
// after a line move inserts a new row rather than updating this one.
func (r *PostgresEdgeRepository) Insert(ctx context.Context, edge *models.BettingEdge) error {
	query := `
		INSERT INTO edges (id, game_id, season, week, league, home_team, away_team,
		                   side, predicted_line, market_line, book, edge_points,
		                   tier, suppressed, confidence, reasons, data_sources, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		edge.ID, edge.GameID, edge.Season, edge.Week, edge.League,
		edge.HomeTeam, edge.AwayTeam, edge.Side, edge.PredictedLine, edge.MarketLine,
		edge.Book, edge.EdgePoints, edge.Tier, edge.Suppressed, edge.Confidence,
		edge.Reasons, edge.DataSources, edge.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert edge: %w", err)
	}

	return nil
}

// GetByID retrieves an edge by ID
func (r *PostgresEdgeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BettingEdge, error) {
	query := `SELECT ` + edgeColumns + ` FROM edges WHERE id = $1`

	row := r.db.GetPool().QueryRow(ctx, query, id)
	edge, err := scanEdge(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get edge: %w", err)
	}

	return edge, nil
}

// GetByWeek retrieves all edges recorded for one league scoring period,
// suppressed ones included
func (r *PostgresEdgeRepository) GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	query := `
		SELECT ` + edgeColumns + `
		FROM edges
		WHERE league = $1 AND season = $2 AND week = $3
		ORDER BY computed_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges by week: %w", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

// GetActionableByWeek retrieves unsuppressed, classified edges for one
// league scoring period, largest magnitude first
func (r *PostgresEdgeRepository) GetActionableByWeek(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	query := `
		SELECT ` + edgeColumns + `
		FROM edges
		WHERE league = $1 AND season = $2 AND week = $3
		  AND suppressed = FALSE AND tier <> 'NONE'
		ORDER BY ABS(edge_points) DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query actionable edges: %w", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

func scanEdge(row pgx.Row) (*models.BettingEdge, error) {
	edge := &models.BettingEdge{}
	err := row.Scan(
		&edge.ID, &edge.GameID, &edge.Season, &edge.Week, &edge.League,
		&edge.HomeTeam, &edge.AwayTeam, &edge.Side, &edge.PredictedLine, &edge.MarketLine,
		&edge.Book, &edge.EdgePoints, &edge.Tier, &edge.Suppressed, &edge.Confidence,
		&edge.Reasons, &edge.DataSources, &edge.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	return edge, nil
}

func scanEdges(rows pgx.Rows) ([]*models.BettingEdge, error) {
	var edges []*models.BettingEdge
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanEdge, err)
		}
		edges = append(edges, edge)
	}

	return edges, rows.Err()
}
