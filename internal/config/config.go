// Package config provides configuration management for the Sharpline engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Leagues   LeaguesConfig   `mapstructure:"leagues" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Publish   PublishConfig   `mapstructure:"publish" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Schedule  ScheduleConfig  `mapstructure:"schedule" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProvidersConfig groups the five upstream data provider adapters
type ProvidersConfig struct {
	Schedule ProviderConfig   `mapstructure:"schedule" validate:"required"`
	Odds     OddsFeedConfig   `mapstructure:"odds" validate:"required"`
	Weather  ProviderConfig   `mapstructure:"weather" validate:"required"`
	Injury   ProviderConfig   `mapstructure:"injury" validate:"required"`
	Stats    ProviderConfig   `mapstructure:"stats" validate:"required"`
	HTTP     HTTPClientConfig `mapstructure:"http" validate:"required"`
}

// ProviderConfig represents a single HTTP provider adapter configuration
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Enabled bool   `mapstructure:"enabled"`
}

// OddsFeedConfig represents the market odds provider, which exposes both a
// snapshot HTTP endpoint and a streaming websocket feed
type OddsFeedConfig struct {
	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	StreamURL string `mapstructure:"stream_url"`
	APIKey    string `mapstructure:"api_key"`
	Enabled   bool   `mapstructure:"enabled"`
}

// HTTPClientConfig tunes the shared rate-limited provider HTTP client
type HTTPClientConfig struct {
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries       int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMS   int     `mapstructure:"retry_wait_min_ms" validate:"gt=0"`
	RetryWaitMaxMS   int     `mapstructure:"retry_wait_max_ms" validate:"gt=0"`
	RateLimitPerSec  float64 `mapstructure:"rate_limit_per_sec" validate:"gt=0"`
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds" validate:"gt=0"`
	BreakerThreshold int     `mapstructure:"breaker_threshold" validate:"gt=0"`
}

// LeaguesConfig holds per-league tuning for both supported leagues
type LeaguesConfig struct {
	NFL LeagueConfig `mapstructure:"nfl" validate:"required"`
	CFB LeagueConfig `mapstructure:"cfb" validate:"required"`
}

// LeagueConfig carries every league-specific constant the pipeline consumes.
// The favorite/underdog multipliers are deliberately external inputs: they
// are empirically tuned calibration constants, never derived in-engine.
type LeagueConfig struct {
	RatingBaseline        float64            `mapstructure:"rating_baseline"`
	RatingMin             float64            `mapstructure:"rating_min"`
	RatingMax             float64            `mapstructure:"rating_max" validate:"gtfield=RatingMin"`
	ComponentWeights      map[string]float64 `mapstructure:"component_weights" validate:"required"`
	HomeFieldAdvantage    float64            `mapstructure:"home_field_advantage" validate:"gte=0"`
	TierThresholds        TierThresholds     `mapstructure:"tier_thresholds" validate:"required"`
	SuppressionCeiling    float64            `mapstructure:"suppression_ceiling" validate:"gt=0"`
	FavoriteMultiplier    float64            `mapstructure:"favorite_multiplier" validate:"gt=0,lte=2"`
	UnderdogMultiplier    float64            `mapstructure:"underdog_multiplier" validate:"gt=0,lte=2"`
	TierWinProbability    map[string]float64 `mapstructure:"tier_win_probability" validate:"required"`
	InjuryMaxImpact       float64            `mapstructure:"injury_max_impact" validate:"gt=0"`
	OutlierThreshold      float64            `mapstructure:"outlier_threshold" validate:"gt=0"`
	OffensePointsCoeff    float64            `mapstructure:"offense_points_coeff" validate:"gt=0"`
	OffenseYardsCoeff     float64            `mapstructure:"offense_yards_coeff" validate:"gt=0"`
	BaselinePointsPerGame float64            `mapstructure:"baseline_points_per_game" validate:"gt=0"`
	BaselineYardsPerGame  float64            `mapstructure:"baseline_yards_per_game" validate:"gt=0"`
}

// TierThresholds are the ascending edge-point cutoffs for each tier
type TierThresholds struct {
	Lean     float64 `mapstructure:"lean" validate:"gt=0"`
	Moderate float64 `mapstructure:"moderate" validate:"gtfield=Lean"`
	Strong   float64 `mapstructure:"strong" validate:"gtfield=Moderate"`
	Max      float64 `mapstructure:"max" validate:"gtfield=Strong"`
}

// PipelineConfig represents batch execution configuration
type PipelineConfig struct {
	MaxConcurrentGames     int     `mapstructure:"max_concurrent_games" validate:"required,gt=0"`
	ProviderTimeoutSeconds int     `mapstructure:"provider_timeout_seconds" validate:"required,gt=0"`
	DateToleranceHours     int     `mapstructure:"date_tolerance_hours" validate:"gte=0"`
	ConfidencePenalty      float64 `mapstructure:"confidence_penalty" validate:"gte=0,lte=1"`
	MinConfidence          float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
}

// StakingConfig represents bankroll and Kelly sizing configuration
type StakingConfig struct {
	Bankroll           float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	MaxKellyFraction   float64 `mapstructure:"max_kelly_fraction" validate:"required,gt=0,lte=1"`
	MinEdgePoints      float64 `mapstructure:"min_edge_points" validate:"gte=0"`
	DefaultDecimalOdds float64 `mapstructure:"default_decimal_odds" validate:"required,gt=1"`
	MinStake           float64 `mapstructure:"min_stake" validate:"gte=0"`
}

// PublishConfig represents downstream edge record sinks
type PublishConfig struct {
	Output string      `mapstructure:"output" validate:"required"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig represents the optional Redis stream sink
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Stream  string `mapstructure:"stream"`
	MaxLen  int64  `mapstructure:"max_len"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Port       int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path       string `mapstructure:"path" validate:"required"`
	HealthPort int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// ScheduleConfig represents the cron schedule for the serve mode
type ScheduleConfig struct {
	WeeklyRun             string `mapstructure:"weekly_run" validate:"required"`
	ClosingCaptureMinutes int    `mapstructure:"closing_capture_minutes" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// League returns the tuning block for the named league
func (c *Config) League(league string) (*LeagueConfig, error) {
	switch league {
	case "nfl":
		return &c.Leagues.NFL, nil
	case "cfb":
		return &c.Leagues.CFB, nil
	default:
		return nil, fmt.Errorf("no configuration for league %q", league)
	}
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
