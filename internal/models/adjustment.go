package models

// AdjustmentKind discriminates the two contextual adjustment layers
type AdjustmentKind string

const (
	AdjustmentWeather     AdjustmentKind = "weather"
	AdjustmentSituational AdjustmentKind = "situational"
)

// ContextualAdjustment is a signed point adjustment computed per game.
// Weather adjustments take the more severe of two independent estimates;
// situational adjustments sum across independent categories.
type ContextualAdjustment struct {
	Kind         AdjustmentKind `json:"kind" validate:"required,oneof=weather situational"`
	SignedPoints float64        `json:"signed_points"`
	Reasons      []string       `json:"reasons"`
}

// IsNeutral reports whether the adjustment moves the line at all
func (a ContextualAdjustment) IsNeutral() bool {
	return a.SignedPoints == 0
}
