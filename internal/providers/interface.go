// Package providers contains the upstream data adapters. Every adapter
// speaks the same typed ingestion contract: raw provider payloads are
// normalized into internal/models records at the boundary and nothing
// downstream ever sees a provider's own schema.
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/sharpline/internal/models"
)

// ScheduleProvider fetches the canonical slate for a scoring period
type ScheduleProvider interface {
	FetchSchedule(ctx context.Context, league models.League, season, week int) ([]models.ScheduleRecord, error)
	Name() string
	IsEnabled() bool
}

// OddsProvider fetches per-book market snapshots
type OddsProvider interface {
	FetchMarkets(ctx context.Context, league models.League, season, week int) ([]models.MarketRecord, error)
	Name() string
	IsEnabled() bool
}

// WeatherProvider fetches venue forecasts for kickoff windows
type WeatherProvider interface {
	FetchForecast(ctx context.Context, venue string, kickoff time.Time) (*models.WeatherRecord, error)
	Name() string
	IsEnabled() bool
}

// InjuryProvider fetches the current injury report for a team
type InjuryProvider interface {
	FetchInjuries(ctx context.Context, league models.League, team string) ([]models.InjuryRecord, error)
	Name() string
	IsEnabled() bool
}

// StatsProvider fetches cumulative team statistics through a scoring period
type StatsProvider interface {
	FetchTeamStats(ctx context.Context, league models.League, team string, season, week int) (*models.TeamStatRecord, error)
	Name() string
	IsEnabled() bool
}

// Set bundles one adapter per upstream concern for pipeline injection
type Set struct {
	Schedule ScheduleProvider
	Odds     OddsProvider
	Weather  WeatherProvider
	Injury   InjuryProvider
	Stats    StatsProvider
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // Provider name
	Code     string // Error code (e.g., "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "provider_disabled"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrProviderDisabled     = errors.New("provider disabled")
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
