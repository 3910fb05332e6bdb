package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharpline/internal/database"
	"github.com/yourusername/sharpline/internal/models"
)

// PostgresClosingLineRepository implements ClosingLineRepository for
// PostgreSQL
type PostgresClosingLineRepository struct {
	db *database.DB
}

// NewPostgresClosingLineRepository creates a new closing line repository
func NewPostgresClosingLineRepository(db *database.DB) ClosingLineRepository {
	return &PostgresClosingLineRepository{db: db}
}

// Insert attaches a closing line to a recorded edge. One closing line per
// edge; a duplicate attach is a no-op.
func (r *PostgresClosingLineRepository) Insert(ctx context.Context, line *models.ClosingLine) error {
	query := `
		INSERT INTO closing_lines (id, edge_id, closing_spread, book, final_margin, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (edge_id) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		line.ID, line.EdgeID, line.ClosingSpread, line.Book, line.FinalMargin, line.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert closing line: %w", err)
	}

	return nil
}

// GetByEdgeID retrieves the closing line attached to an edge
func (r *PostgresClosingLineRepository) GetByEdgeID(ctx context.Context, edgeID uuid.UUID) (*models.ClosingLine, error) {
	query := `
		SELECT id, edge_id, closing_spread, book, final_margin, closed_at, created_at
		FROM closing_lines
		WHERE edge_id = $1
	`

	line := &models.ClosingLine{}
	err := r.db.GetPool().QueryRow(ctx, query, edgeID).Scan(
		&line.ID, &line.EdgeID, &line.ClosingSpread, &line.Book,
		&line.FinalMargin, &line.ClosedAt, &line.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get closing line: %w", err)
	}

	return line, nil
}

// GetPendingEdges retrieves edges for one scoring period that have no
// closing line attached yet
func (r *PostgresClosingLineRepository) GetPendingEdges(ctx context.Context, league models.League, season, week int) ([]*models.BettingEdge, error) {
	query := `
		SELECT ` + edgeColumns + `
		FROM edges e
		WHERE e.league = $1 AND e.season = $2 AND e.week = $3
		  AND NOT EXISTS (SELECT 1 FROM closing_lines c WHERE c.edge_id = e.id)
		ORDER BY e.computed_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending edges: %w", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}
