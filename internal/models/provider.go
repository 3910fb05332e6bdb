package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleRecord is a typed schedule entry from the schedule provider
type ScheduleRecord struct {
	ProviderID  string    `json:"provider_id" validate:"required"`
	Season      int       `json:"season" validate:"required"`
	Week        int       `json:"week" validate:"required,gte=1"`
	League      League    `json:"league" validate:"required,oneof=nfl cfb"`
	HomeTeam    string    `json:"home_team" validate:"required"`
	AwayTeam    string    `json:"away_team" validate:"required"`
	KickoffTime time.Time `json:"kickoff_time" validate:"required"`
	Venue       string    `json:"venue"`
	Indoor      bool      `json:"indoor"`
}

// MarketRecord is a per-book market snapshot keyed by the provider's own
// game id; team names are free text and must pass through the resolver
type MarketRecord struct {
	ProviderID    string           `json:"provider_id" validate:"required"`
	Book          string           `json:"book" validate:"required"`
	HomeTeam      string           `json:"home_team" validate:"required"`
	AwayTeam      string           `json:"away_team" validate:"required"`
	KickoffTime   time.Time        `json:"kickoff_time" validate:"required"`
	HomeSpread    float64          `json:"home_spread"`
	Total         *float64         `json:"total"`
	MoneylineHome *int             `json:"moneyline_home"`
	MoneylineAway *int             `json:"moneyline_away"`
	SpreadPrice   *decimal.Decimal `json:"spread_price"`
	RetrievedAt   time.Time        `json:"retrieved_at" validate:"required"`
}

// AlertSeverity is the categorical severe-weather alert classification
type AlertSeverity string

const (
	AlertNone     AlertSeverity = ""
	AlertAdvisory AlertSeverity = "advisory"
	AlertWatch    AlertSeverity = "watch"
	AlertWarning  AlertSeverity = "warning"
)

// Rank returns the ordinal severity of the alert, none lowest
func (a AlertSeverity) Rank() int {
	switch a {
	case AlertAdvisory:
		return 1
	case AlertWatch:
		return 2
	case AlertWarning:
		return 3
	default:
		return 0
	}
}

// PrecipType classifies the expected precipitation
type PrecipType string

const (
	PrecipNone PrecipType = ""
	PrecipRain PrecipType = "rain"
	PrecipSnow PrecipType = "snow"
	PrecipIce  PrecipType = "ice"
)

// WeatherRecord is a per-venue forecast from the weather provider
type WeatherRecord struct {
	Venue        string        `json:"venue" validate:"required"`
	TemperatureF float64       `json:"temperature_f"`
	WindMPH      float64       `json:"wind_mph" validate:"gte=0"`
	PrecipChance float64       `json:"precip_chance" validate:"gte=0,lte=1"`
	Precip       PrecipType    `json:"precip"`
	Alert        AlertSeverity `json:"alert"`
	RetrievedAt  time.Time     `json:"retrieved_at"`
}

// PlayerStatus is the reported availability of a player
type PlayerStatus string

const (
	StatusActive       PlayerStatus = "active"
	StatusProbable     PlayerStatus = "probable"
	StatusQuestionable PlayerStatus = "questionable"
	StatusDoubtful     PlayerStatus = "doubtful"
	StatusOut          PlayerStatus = "out"
)

// InjuryRecord is a single per-player entry from the injury report provider
type InjuryRecord struct {
	Team        string       `json:"team" validate:"required"`
	League      League       `json:"league" validate:"required"`
	Player      string       `json:"player" validate:"required"`
	Position    string       `json:"position" validate:"required"`
	Status      PlayerStatus `json:"status" validate:"required,oneof=active probable questionable doubtful out"`
	RetrievedAt time.Time    `json:"retrieved_at"`
}

// TeamStatRecord is a per-team per-week box-score aggregate from the team
// statistics provider. RecentMargins holds signed final margins, most recent
// first, for momentum scoring.
type TeamStatRecord struct {
	Team          string    `json:"team" validate:"required"`
	League        League    `json:"league" validate:"required"`
	Season        int       `json:"season" validate:"required"`
	Week          int       `json:"week" validate:"required"`
	GamesPlayed   int       `json:"games_played" validate:"gte=0"`
	Wins          int       `json:"wins" validate:"gte=0"`
	Losses        int       `json:"losses" validate:"gte=0"`
	PointsFor     float64   `json:"points_for" validate:"gte=0"`
	PointsAgainst float64   `json:"points_against" validate:"gte=0"`
	YardsFor      float64   `json:"yards_for" validate:"gte=0"`
	YardsAgainst  float64   `json:"yards_against" validate:"gte=0"`
	RecentMargins []float64 `json:"recent_margins"`
	RetrievedAt   time.Time `json:"retrieved_at"`
}

// WinPct returns the team's win percentage, 0 when no games played
func (t *TeamStatRecord) WinPct() float64 {
	games := t.Wins + t.Losses
	if games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(games)
}
