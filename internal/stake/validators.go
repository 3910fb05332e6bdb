package stake

import (
	"fmt"

	"github.com/yourusername/sharpline/internal/models"
)

// Result is the outcome of one validator check. Reason is set on failure.
type Result struct {
	Pass   bool
	Reason string
}

// Validator is a named pre-stake check. Names appear in rejection reasons
// and in logs, so keep them short and stable.
type Validator interface {
	Name() string
	Check(edge *models.BettingEdge) Result
}

type validatorFunc struct {
	name  string
	check func(edge *models.BettingEdge) Result
}

func (v validatorFunc) Name() string                          { return v.name }
func (v validatorFunc) Check(edge *models.BettingEdge) Result { return v.check(edge) }

func pass() Result { return Result{Pass: true} }

func fail(format string, args ...interface{}) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// NotSuppressed rejects edges the detector flagged over the market-respect
// ceiling
func NotSuppressed() Validator {
	return validatorFunc{
		name: "not_suppressed",
		check: func(edge *models.BettingEdge) Result {
			if edge.Suppressed {
				return fail("edge is suppressed")
			}
			return pass()
		},
	}
}

// MeetsMinimumEdge rejects edges below the configured floor in points
func MeetsMinimumEdge(minPoints float64) Validator {
	return validatorFunc{
		name: "min_edge",
		check: func(edge *models.BettingEdge) Result {
			if edge.Magnitude() < minPoints {
				return fail("|%.1f| points below minimum %.1f", edge.EdgePoints, minPoints)
			}
			return pass()
		},
	}
}

// HasActionableTier rejects edges that classified below LEAN
func HasActionableTier() Validator {
	return validatorFunc{
		name: "actionable_tier",
		check: func(edge *models.BettingEdge) Result {
			if edge.Tier == models.TierNone || edge.Tier == "" {
				return fail("tier %q is not bettable", edge.Tier)
			}
			return pass()
		},
	}
}

// KnownWinProbability rejects edges whose tier has no calibrated win
// probability in the league table
func KnownWinProbability(table map[string]float64) Validator {
	return validatorFunc{
		name: "known_win_probability",
		check: func(edge *models.BettingEdge) Result {
			p, ok := table[string(edge.Tier)]
			if !ok {
				return fail("no win probability configured for tier %s", edge.Tier)
			}
			if p <= 0.5 || p >= 1 {
				return fail("win probability %.2f for tier %s outside (0.5, 1)", p, edge.Tier)
			}
			return pass()
		},
	}
}
