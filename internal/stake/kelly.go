// Package stake turns classified edges into capped Kelly bankroll
// allocations, gated by a named validator pipeline.
package stake

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/sharpline/internal/config"
	"github.com/yourusername/sharpline/internal/models"
)

// Sizer produces stake recommendations from edges. Every edge passes the
// validator pipeline before any sizing math runs; a single failing validator
// yields a zero-stake recommendation carrying the failure reason.
type Sizer struct {
	staking    config.StakingConfig
	league     *config.LeagueConfig
	validators []Validator
}

// NewSizer builds a sizer with the standard validator pipeline
func NewSizer(staking config.StakingConfig, league *config.LeagueConfig) *Sizer {
	return &Sizer{
		staking: staking,
		league:  league,
		validators: []Validator{
			NotSuppressed(),
			MeetsMinimumEdge(staking.MinEdgePoints),
			HasActionableTier(),
			KnownWinProbability(league.TierWinProbability),
		},
	}
}

// Size computes the capped Kelly stake for one edge, priced at the market
// snapshot's spread price when the book quoted one, otherwise at the
// configured default decimal odds.
//
// Kelly fraction for decimal odds d with win probability p:
//
//	b = d - 1
//	f = (p*(b+1) - 1) / b
//
// The fraction is clamped to [0, max_kelly_fraction] unconditionally. The
// unclamped value is retained on the recommendation for audit.
func (s *Sizer) Size(edge *models.BettingEdge, market *models.MarketRecord) *models.StakeRecommendation {
	rec := &models.StakeRecommendation{
		ID:          uuid.New(),
		EdgeID:      edge.ID,
		DecimalOdds: s.decimalOdds(market),
		StakeAmount: decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}

	for _, v := range s.validators {
		if result := v.Check(edge); !result.Pass {
			rec.Reasons = append(rec.Reasons,
				fmt.Sprintf("rejected by %s: %s", v.Name(), result.Reason))
			return rec
		}
	}

	if market != nil && market.SpreadPrice != nil {
		rec.Reasons = append(rec.Reasons,
			fmt.Sprintf("priced at %s quote %s", market.Book, market.SpreadPrice.StringFixed(2)))
	}

	p := s.league.TierWinProbability[string(edge.Tier)]
	rec.WinProbabilityEstimate = p

	b := rec.DecimalOdds - 1
	raw := (p*(b+1) - 1) / b
	rec.UnclampedKellyFraction = raw

	fraction := raw
	switch {
	case fraction < 0:
		fraction = 0
		rec.Reasons = append(rec.Reasons, "negative Kelly fraction, no bet")
	case fraction > s.staking.MaxKellyFraction:
		fraction = s.staking.MaxKellyFraction
		rec.Reasons = append(rec.Reasons,
			fmt.Sprintf("kelly fraction %.4f clamped to cap %.4f", raw, s.staking.MaxKellyFraction))
	}
	rec.FractionOfBankroll = fraction

	if fraction == 0 {
		return rec
	}

	amount := decimal.NewFromFloat(s.staking.Bankroll).
		Mul(decimal.NewFromFloat(fraction)).
		Round(2)
	if amount.LessThan(decimal.NewFromFloat(s.staking.MinStake)) {
		rec.FractionOfBankroll = 0
		rec.Reasons = append(rec.Reasons,
			fmt.Sprintf("stake %s below minimum %.2f, no bet", amount.StringFixed(2), s.staking.MinStake))
		return rec
	}
	rec.StakeAmount = amount
	rec.Reasons = append(rec.Reasons,
		fmt.Sprintf("%s tier, p=%.2f, staking %.1f%% of bankroll", edge.Tier, p, fraction*100))

	return rec
}

// decimalOdds picks the odds the Kelly math runs on. A quoted spread price
// must price a real payout (above 1.0) to be usable; anything else falls
// back to the configured default
func (s *Sizer) decimalOdds(market *models.MarketRecord) float64 {
	if market == nil || market.SpreadPrice == nil {
		return s.staking.DefaultDecimalOdds
	}
	price, _ := market.SpreadPrice.Float64()
	if price <= 1 {
		return s.staking.DefaultDecimalOdds
	}
	return price
}
