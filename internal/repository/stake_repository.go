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

// PostgresStakeRepository implements StakeRepository for PostgreSQL
type PostgresStakeRepository struct {
	db *database.DB
}

// NewPostgresStakeRepository creates a new stake recommendation repository
func NewPostgresStakeRepository(db *database.DB) StakeRepository {
	return &PostgresStakeRepository{db: db}
}

// Insert records a stake recommendation for an edge
func (r *PostgresStakeRepository) Insert(ctx context.Context, rec *models.StakeRecommendation) error {
	query := `
		INSERT INTO stake_recommendations (id, edge_id, win_probability_estimate,
		                                   decimal_odds, unclamped_kelly_fraction,
		                                   fraction_of_bankroll, stake_amount, reasons)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		rec.ID, rec.EdgeID, rec.WinProbabilityEstimate, rec.DecimalOdds,
		rec.UnclampedKellyFraction, rec.FractionOfBankroll, rec.StakeAmount, rec.Reasons,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stake recommendation: %w", err)
	}

	return nil
}

// GetByEdgeID retrieves the recommendation sized for one edge
func (r *PostgresStakeRepository) GetByEdgeID(ctx context.Context, edgeID uuid.UUID) (*models.StakeRecommendation, error) {
	query := `
		SELECT id, edge_id, win_probability_estimate, decimal_odds,
		       unclamped_kelly_fraction, fraction_of_bankroll, stake_amount,
		       reasons, created_at
		FROM stake_recommendations
		WHERE edge_id = $1
	`

	rec := &models.StakeRecommendation{}
	err := r.db.GetPool().QueryRow(ctx, query, edgeID).Scan(
		&rec.ID, &rec.EdgeID, &rec.WinProbabilityEstimate, &rec.DecimalOdds,
		&rec.UnclampedKellyFraction, &rec.FractionOfBankroll, &rec.StakeAmount,
		&rec.Reasons, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stake recommendation: %w", err)
	}

	return rec, nil
}

// GetBets retrieves recommendations with money down created since a cutoff
func (r *PostgresStakeRepository) GetBets(ctx context.Context, since time.Time) ([]*models.StakeRecommendation, error) {
	query := `
		SELECT id, edge_id, win_probability_estimate, decimal_odds,
		       unclamped_kelly_fraction, fraction_of_bankroll, stake_amount,
		       reasons, created_at
		FROM stake_recommendations
		WHERE fraction_of_bankroll > 0 AND created_at >= $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var recs []*models.StakeRecommendation
	for rows.Next() {
		rec := &models.StakeRecommendation{}
		err := rows.Scan(
			&rec.ID, &rec.EdgeID, &rec.WinProbabilityEstimate, &rec.DecimalOdds,
			&rec.UnclampedKellyFraction, &rec.FractionOfBankroll, &rec.StakeAmount,
			&rec.Reasons, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stake recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
