package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StakeRecommendation is a risk-capped bankroll allocation for one edge.
// Both the raw Kelly fraction and the clamped recommendation are retained so
// the cap is auditable. Invariant: 0 <= FractionOfBankroll <= the configured
// Kelly cap.
type StakeRecommendation struct {
	ID                     uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	EdgeID                 uuid.UUID       `db:"edge_id" json:"edge_id" validate:"required,uuid4"`
	WinProbabilityEstimate float64         `db:"win_probability_estimate" json:"win_probability_estimate" validate:"gte=0,lte=1"`
	DecimalOdds            float64         `db:"decimal_odds" json:"decimal_odds" validate:"gte=1"`
	UnclampedKellyFraction float64         `db:"unclamped_kelly_fraction" json:"unclamped_kelly_fraction"`
	FractionOfBankroll     float64         `db:"fraction_of_bankroll" json:"fraction_of_bankroll" validate:"gte=0"`
	StakeAmount            decimal.Decimal `db:"stake_amount" json:"stake_amount"`
	Reasons                []string        `db:"reasons" json:"reasons"`
	CreatedAt              time.Time       `db:"created_at" json:"created_at"`
}

// IsBet reports whether the recommendation calls for any money down
func (s *StakeRecommendation) IsBet() bool {
	return s.FractionOfBankroll > 0
}
