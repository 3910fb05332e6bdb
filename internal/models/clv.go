package models

import (
	"time"

	"github.com/google/uuid"
)

// ClosingLine attaches the market's final pre-kickoff line and the actual
// result to a previously recorded edge, for longitudinal accuracy
// measurement independent of any single game's outcome.
type ClosingLine struct {
	ID            uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	EdgeID        uuid.UUID `db:"edge_id" json:"edge_id" validate:"required,uuid4"`
	ClosingSpread float64   `db:"closing_spread" json:"closing_spread"`
	Book          string    `db:"book" json:"book"`
	FinalMargin   *float64  `db:"final_margin" json:"final_margin"`
	ClosedAt      time.Time `db:"closed_at" json:"closed_at" validate:"required"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CLVPoints returns how many points of closing line value the recorded edge
// captured: positive when the bet side's number beat the close.
func (c *ClosingLine) CLVPoints(edge *BettingEdge) float64 {
	diff := c.ClosingSpread - edge.MarketLine
	if edge.Side == SideAway {
		return -diff
	}
	return diff
}

// BeatClose reports whether the recorded price was more favorable than the
// market's final pre-event price.
func (c *ClosingLine) BeatClose(edge *BettingEdge) bool {
	return c.CLVPoints(edge) > 0
}
