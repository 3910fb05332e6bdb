package providers

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/sharpline/internal/config"
)

// NewSet builds the full provider set from configuration. All HTTP adapters
// share one rate-limited client and one response cache.
func NewSet(cfg *config.ProvidersConfig, logger *log.Logger) (*Set, error) {
	if cfg == nil {
		return nil, fmt.Errorf("providers configuration is required")
	}

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg.HTTP), logger)
	cache := NewResponseCache(time.Duration(cfg.HTTP.CacheTTLSeconds) * time.Second)

	set := &Set{
		Schedule: NewScheduleClient(httpClient, cfg.Schedule.BaseURL, cfg.Schedule.APIKey, cfg.Schedule.Enabled, logger),
		Odds:     NewOddsClient(httpClient, cfg.Odds.BaseURL, cfg.Odds.APIKey, cfg.Odds.Enabled, logger),
		Weather:  NewWeatherClient(httpClient, cache, cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Enabled, logger),
		Injury:   NewInjuryClient(httpClient, cache, cfg.Injury.BaseURL, cfg.Injury.APIKey, cfg.Injury.Enabled, logger),
		Stats:    NewStatsClient(httpClient, cache, cfg.Stats.BaseURL, cfg.Stats.APIKey, cfg.Stats.Enabled, logger),
	}

	if !set.Schedule.IsEnabled() {
		return nil, fmt.Errorf("schedule provider must be enabled")
	}
	if !set.Odds.IsEnabled() {
		return nil, fmt.Errorf("odds provider must be enabled")
	}

	return set, nil
}

// NewStream builds the optional odds stream client; nil when no stream URL
// is configured
func NewStream(cfg *config.OddsFeedConfig, logger *log.Logger) *OddsStreamClient {
	if cfg == nil || cfg.StreamURL == "" {
		return nil
	}
	return NewOddsStreamClient(cfg.StreamURL, cfg.APIKey, logger)
}
