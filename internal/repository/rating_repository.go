package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharpline/internal/database"
	"github.com/yourusername/sharpline/internal/models"
)

const errScanRating = "failed to scan rating snapshot: %w"

// PostgresRatingRepository implements RatingRepository for PostgreSQL.
// Components are stored as a JSONB column so snapshot provenance survives
// round trips without a join table.
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating snapshot repository
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// Insert appends a new snapshot version. Existing rows are never updated;
// recomputing a week inserts a fresh row with a later created_at.
func (r *PostgresRatingRepository) Insert(ctx context.Context, snapshot *models.TeamRatingSnapshot) error {
	components, err := json.Marshal(snapshot.Components)
	if err != nil {
		return fmt.Errorf("failed to encode rating components: %w", err)
	}

	query := `
		INSERT INTO rating_snapshots (id, team, league, season, week, overall_rating,
		                              components, saturated, external_comparison, outlier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		snapshot.ID, snapshot.Team, snapshot.League, snapshot.Season, snapshot.Week,
		snapshot.OverallRating, components, snapshot.Saturated,
		snapshot.ExternalComparison, snapshot.Outlier,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rating snapshot: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent snapshot version for one team in one
// scoring period
func (r *PostgresRatingRepository) GetLatest(ctx context.Context, league models.League, team string, season, week int) (*models.TeamRatingSnapshot, error) {
	query := `
		SELECT id, team, league, season, week, overall_rating, components,
		       saturated, external_comparison, outlier, created_at
		FROM rating_snapshots
		WHERE league = $1 AND team = $2 AND season = $3 AND week = $4
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.db.GetPool().QueryRow(ctx, query, league, team, season, week)
	snapshot, err := scanRating(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rating snapshot: %w", err)
	}

	return snapshot, nil
}

// GetWeek retrieves the latest snapshot per team for one league scoring
// period
func (r *PostgresRatingRepository) GetWeek(ctx context.Context, league models.League, season, week int) ([]*models.TeamRatingSnapshot, error) {
	query := `
		SELECT DISTINCT ON (team)
		       id, team, league, season, week, overall_rating, components,
		       saturated, external_comparison, outlier, created_at
		FROM rating_snapshots
		WHERE league = $1 AND season = $2 AND week = $3
		ORDER BY team, created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating snapshots by week: %w", err)
	}
	defer rows.Close()

	return scanRatings(rows)
}

// GetHistory retrieves all snapshot versions for one team across a season,
// oldest first
func (r *PostgresRatingRepository) GetHistory(ctx context.Context, league models.League, team string, season int) ([]*models.TeamRatingSnapshot, error) {
	query := `
		SELECT id, team, league, season, week, overall_rating, components,
		       saturated, external_comparison, outlier, created_at
		FROM rating_snapshots
		WHERE league = $1 AND team = $2 AND season = $3
		ORDER BY week ASC, created_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, team, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	return scanRatings(rows)
}

func scanRating(row pgx.Row) (*models.TeamRatingSnapshot, error) {
	snapshot := &models.TeamRatingSnapshot{}
	var components []byte
	err := row.Scan(
		&snapshot.ID, &snapshot.Team, &snapshot.League, &snapshot.Season, &snapshot.Week,
		&snapshot.OverallRating, &components, &snapshot.Saturated,
		&snapshot.ExternalComparison, &snapshot.Outlier, &snapshot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(components, &snapshot.Components); err != nil {
		return nil, fmt.Errorf("failed to decode rating components: %w", err)
	}
	return snapshot, nil
}

func scanRatings(rows pgx.Rows) ([]*models.TeamRatingSnapshot, error) {
	var snapshots []*models.TeamRatingSnapshot
	for rows.Next() {
		snapshot, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRating, err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
