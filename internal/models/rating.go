package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingComponent is one weighted sub-score contributing to a power rating.
// Calculators always return value with weight and explanation attached so the
// aggregator and any human auditor can trace contribution provenance.
type RatingComponent struct {
	Name        string  `db:"name" json:"name" validate:"required"`
	Value       float64 `db:"value" json:"value"`
	Weight      float64 `db:"weight" json:"weight" validate:"gte=0,lte=1"`
	Explanation string  `db:"explanation" json:"explanation"`
	Missing     bool    `db:"missing" json:"missing,omitempty"`
}

// Contribution returns the component's share of the overall rating
func (c RatingComponent) Contribution() float64 {
	return c.Value * c.Weight
}

// TeamRatingSnapshot is a versioned, immutable power rating for one team in
// one scoring period. A new week produces a new snapshot, never an in-place
// edit; history is retained for audit.
type TeamRatingSnapshot struct {
	ID                 uuid.UUID         `db:"id" json:"id" validate:"required,uuid4"`
	Team               string            `db:"team" json:"team" validate:"required"`
	League             League            `db:"league" json:"league" validate:"required,oneof=nfl cfb"`
	Season             int               `db:"season" json:"season" validate:"required"`
	Week               int               `db:"week" json:"week" validate:"required,gte=1"`
	OverallRating      float64           `db:"overall_rating" json:"overall_rating"`
	Components         []RatingComponent `db:"components" json:"components"`
	Saturated          bool              `db:"saturated" json:"saturated"`
	ExternalComparison *float64          `db:"external_comparison" json:"external_comparison,omitempty"`
	Outlier            bool              `db:"outlier" json:"outlier"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
}

// Component looks up a named component on the snapshot
func (s *TeamRatingSnapshot) Component(name string) (RatingComponent, bool) {
	for _, c := range s.Components {
		if c.Name == name {
			return c, true
		}
	}
	return RatingComponent{}, false
}

// ExternalDifferential returns the gap between the engine rating and the
// independent comparison rating, if one is attached
func (s *TeamRatingSnapshot) ExternalDifferential() (float64, bool) {
	if s.ExternalComparison == nil {
		return 0, false
	}
	return s.OverallRating - *s.ExternalComparison, true
}
