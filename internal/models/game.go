package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// League identifies the competition a game belongs to
type League string

const (
	LeagueNFL League = "nfl"
	LeagueCFB League = "cfb"
)

// ParseLeague validates and converts a league string
func ParseLeague(s string) (League, error) {
	switch League(strings.ToLower(strings.TrimSpace(s))) {
	case LeagueNFL:
		return LeagueNFL, nil
	case LeagueCFB:
		return LeagueCFB, nil
	default:
		return "", fmt.Errorf("unknown league: %q", s)
	}
}

// GameStatus represents the lifecycle state of a canonical game
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinal      GameStatus = "final"
	GameStatusCancelled  GameStatus = "cancelled"
)

// CanonicalGame is the schedule system's authoritative game record.
// Identity (season, week, league, home, away) never changes after schedule
// ingestion; only the status fields mutate as results arrive.
type CanonicalGame struct {
	ID          uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	Season      int        `db:"season" json:"season" validate:"required,gte=1990"`
	Week        int        `db:"week" json:"week" validate:"required,gte=1,lte=25"`
	League      League     `db:"league" json:"league" validate:"required,oneof=nfl cfb"`
	HomeTeam    string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string     `db:"away_team" json:"away_team" validate:"required"`
	KickoffTime time.Time  `db:"kickoff_time" json:"kickoff_time" validate:"required"`
	Venue       string     `db:"venue" json:"venue"`
	Indoor      bool       `db:"indoor" json:"indoor"`
	Status      GameStatus `db:"status" json:"status" validate:"required,oneof=scheduled in_progress final cancelled"`
	HomeScore   *int       `db:"home_score" json:"home_score"`
	AwayScore   *int       `db:"away_score" json:"away_score"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NaturalKey returns the identity key a game is unique by
func (g *CanonicalGame) NaturalKey() string {
	return fmt.Sprintf("%d:%d:%s:%s:%s", g.Season, g.Week, g.League, g.HomeTeam, g.AwayTeam)
}

// IsFinal checks if the game has completed with a score
func (g *CanonicalGame) IsFinal() bool {
	return g.Status == GameStatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

// IsUpcoming checks if the game hasn't kicked off yet
func (g *CanonicalGame) IsUpcoming() bool {
	return g.Status == GameStatusScheduled
}

// FinalMargin returns home score minus away score for a completed game
func (g *CanonicalGame) FinalMargin() (float64, bool) {
	if !g.IsFinal() {
		return 0, false
	}
	return float64(*g.HomeScore - *g.AwayScore), true
}
