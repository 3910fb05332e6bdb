package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Side indicates which team a detected edge favors
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// EdgeTier is the ordinal classification of an edge magnitude
type EdgeTier string

const (
	TierNone     EdgeTier = "NONE"
	TierLean     EdgeTier = "LEAN"
	TierModerate EdgeTier = "MODERATE"
	TierStrong   EdgeTier = "STRONG"
	TierMax      EdgeTier = "MAX"
)

// Rank returns the ordinal position of the tier, NONE lowest
func (t EdgeTier) Rank() int {
	switch t {
	case TierLean:
		return 1
	case TierModerate:
		return 2
	case TierStrong:
		return 3
	case TierMax:
		return 4
	default:
		return 0
	}
}

// BettingEdge is an immutable record of one line-versus-market comparison.
// A later recomputation after odds move creates a new record, never an
// overwrite. Lines follow the home-margin convention: positive means the
// home team is expected to win by that many points.
type BettingEdge struct {
	ID            uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	GameID        uuid.UUID `db:"game_id" json:"game_id" validate:"required,uuid4"`
	Season        int       `db:"season" json:"season"`
	Week          int       `db:"week" json:"week"`
	League        League    `db:"league" json:"league"`
	HomeTeam      string    `db:"home_team" json:"home_team"`
	AwayTeam      string    `db:"away_team" json:"away_team"`
	Side          Side      `db:"side" json:"side" validate:"required,oneof=home away"`
	PredictedLine float64   `db:"predicted_line" json:"predicted_line"`
	MarketLine    float64   `db:"market_line" json:"market_line"`
	Book          string    `db:"book" json:"book"`
	EdgePoints    float64   `db:"edge_points" json:"edge_points"`
	Tier          EdgeTier  `db:"tier" json:"tier" validate:"required"`
	Suppressed    bool      `db:"suppressed" json:"suppressed"`
	Confidence    float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Reasons       []string  `db:"reasons" json:"reasons"`
	DataSources   []string  `db:"data_sources" json:"data_sources"`
	ComputedAt    time.Time `db:"computed_at" json:"computed_at" validate:"required"`
}

// Magnitude returns the absolute edge size in points
func (e *BettingEdge) Magnitude() float64 {
	return math.Abs(e.EdgePoints)
}

// Actionable reports whether the edge should reach stake sizing
func (e *BettingEdge) Actionable() bool {
	return !e.Suppressed && e.Tier != TierNone
}
