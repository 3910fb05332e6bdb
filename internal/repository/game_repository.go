package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharpline/internal/database"
	"github.com/yourusername/sharpline/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `
	id, season, week, league, home_team, away_team, kickoff_time, venue,
	indoor, status, home_score, away_score, created_at, updated_at`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts a game, updating mutable fields when the natural key
// (season, week, league, home, away) already exists. The stored identity
// wins: on conflict the row keeps its original id, which is written back
// into the passed game so later records reference the canonical identity.
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.CanonicalGame) error {
	query := `
		INSERT INTO games (id, season, week, league, home_team, away_team,
		                   kickoff_time, venue, indoor, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (season, week, league, home_team, away_team)
		DO UPDATE SET kickoff_time = EXCLUDED.kickoff_time,
		              venue = EXCLUDED.venue,
		              indoor = EXCLUDED.indoor,
		              status = EXCLUDED.status,
		              updated_at = NOW()
		RETURNING id
	`

	err := r.db.GetPool().QueryRow(ctx, query,
		game.ID, game.Season, game.Week, game.League, game.HomeTeam, game.AwayTeam,
		game.KickoffTime, game.Venue, game.Indoor, game.Status,
	).Scan(&game.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CanonicalGame, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game := &models.CanonicalGame{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Season, &game.Week, &game.League, &game.HomeTeam, &game.AwayTeam,
		&game.KickoffTime, &game.Venue, &game.Indoor, &game.Status,
		&game.HomeScore, &game.AwayScore, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByWeek retrieves all games for one league scoring period
func (r *PostgresGameRepository) GetByWeek(ctx context.Context, league models.League, season, week int) ([]*models.CanonicalGame, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league = $1 AND season = $2 AND week = $3
		ORDER BY kickoff_time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by week: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByKickoffRange retrieves games kicking off within a time window
func (r *PostgresGameRepository) GetByKickoffRange(ctx context.Context, league models.League, start, end time.Time) ([]*models.CanonicalGame, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league = $1 AND kickoff_time >= $2 AND kickoff_time <= $3
		ORDER BY kickoff_time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by kickoff range: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// UpdateResult records a final score and marks the game final
func (r *PostgresGameRepository) UpdateResult(ctx context.Context, id uuid.UUID, homeScore, awayScore int) error {
	query := `
		UPDATE games SET
			home_score = $2, away_score = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, homeScore, awayScore, models.GameStatusFinal)
	if err != nil {
		return fmt.Errorf("failed to update game result: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanGames(rows pgx.Rows) ([]*models.CanonicalGame, error) {
	var games []*models.CanonicalGame
	for rows.Next() {
		game := &models.CanonicalGame{}
		err := rows.Scan(
			&game.ID, &game.Season, &game.Week, &game.League, &game.HomeTeam, &game.AwayTeam,
			&game.KickoffTime, &game.Venue, &game.Indoor, &game.Status,
			&game.HomeScore, &game.AwayScore, &game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
