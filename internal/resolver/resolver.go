// Package resolver maps market-feed game records onto canonical schedule
// records. Matching is a two-pass lookup over a normalized-key index built
// once per ingestion run: an exact (home, away, kickoff date) match first,
// then a bounded date-tolerance search. Ambiguity is never guessed away; a
// zero- or multi-candidate outcome comes back as a typed UnresolvedError.
package resolver

import (
	"fmt"
	"time"

	"github.com/yourusername/sharpline/internal/models"
)

// UnresolvedReason discriminates why a record could not be resolved
type UnresolvedReason string

const (
	ReasonNoMatch            UnresolvedReason = "no_match"
	ReasonMultipleCandidates UnresolvedReason = "multiple_candidates"
)

// UnresolvedError is the typed result for a record the resolver declines to
// map. Callers decide whether to skip, alert, or retry.
type UnresolvedError struct {
	Reason     UnresolvedReason
	HomeTeam   string
	AwayTeam   string
	Kickoff    time.Time
	Candidates []*models.CanonicalGame
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved game %s @ %s (%s): %s (%d candidates)",
		e.AwayTeam, e.HomeTeam, e.Kickoff.Format("2006-01-02"), e.Reason, len(e.Candidates))
}

// DefaultDateTolerance absorbs timezone and listing-date offsets between
// providers without crossing into a different week's matchup.
const DefaultDateTolerance = 24 * time.Hour

// Resolver holds the per-batch lookup index. Built once, read-only
// afterward, so concurrent lookups need no locking.
type Resolver struct {
	aliases   *AliasTable
	exact     map[string][]*models.CanonicalGame
	byMatchup map[string][]*models.CanonicalGame
	tolerance time.Duration
}

// New builds a resolver index over the batch's canonical games
func New(games []*models.CanonicalGame, aliases *AliasTable, tolerance time.Duration) *Resolver {
	if aliases == nil {
		aliases = NewAliasTable()
	}
	if tolerance <= 0 {
		tolerance = DefaultDateTolerance
	}

	r := &Resolver{
		aliases:   aliases,
		exact:     make(map[string][]*models.CanonicalGame, len(games)),
		byMatchup: make(map[string][]*models.CanonicalGame, len(games)),
		tolerance: tolerance,
	}

	for _, game := range games {
		ek := r.exactKey(game.HomeTeam, game.AwayTeam, game.KickoffTime)
		r.exact[ek] = append(r.exact[ek], game)

		mk := r.matchupKey(game.HomeTeam, game.AwayTeam)
		r.byMatchup[mk] = append(r.byMatchup[mk], game)
	}

	return r
}

// Resolve maps an external market record to its canonical game. The error,
// when non-nil, is always an *UnresolvedError carrying the discriminating
// reason and any surviving candidates.
func (r *Resolver) Resolve(rec *models.MarketRecord) (*models.CanonicalGame, error) {
	// Pass 1: exact match on normalized names plus kickoff date
	if matches := r.exact[r.exactKey(rec.HomeTeam, rec.AwayTeam, rec.KickoffTime)]; len(matches) > 0 {
		if len(matches) == 1 {
			return matches[0], nil
		}
		return nil, r.unresolved(rec, ReasonMultipleCandidates, matches)
	}

	// Pass 2: same matchup within the date tolerance
	var candidates []*models.CanonicalGame
	for _, game := range r.byMatchup[r.matchupKey(rec.HomeTeam, rec.AwayTeam)] {
		delta := game.KickoffTime.Sub(rec.KickoffTime)
		if delta < 0 {
			delta = -delta
		}
		if delta <= r.tolerance {
			candidates = append(candidates, game)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, r.unresolved(rec, ReasonNoMatch, nil)
	default:
		return nil, r.unresolved(rec, ReasonMultipleCandidates, candidates)
	}
}

// Aliases exposes the table so schedule ingestion can register provider
// variants discovered at runtime before the index is built.
func (r *Resolver) Aliases() *AliasTable {
	return r.aliases
}

func (r *Resolver) unresolved(rec *models.MarketRecord, reason UnresolvedReason, candidates []*models.CanonicalGame) *UnresolvedError {
	return &UnresolvedError{
		Reason:     reason,
		HomeTeam:   rec.HomeTeam,
		AwayTeam:   rec.AwayTeam,
		Kickoff:    rec.KickoffTime,
		Candidates: candidates,
	}
}

func (r *Resolver) exactKey(home, away string, kickoff time.Time) string {
	return r.matchupKey(home, away) + "|" + kickoff.UTC().Format("2006-01-02")
}

func (r *Resolver) matchupKey(home, away string) string {
	return r.aliases.Key(home) + "|" + r.aliases.Key(away)
}
