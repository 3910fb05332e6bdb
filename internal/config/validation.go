// Package config provides configuration management for the Sharpline engine.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ratingComponentNames is the component set every league must weight
var ratingComponentNames = []string{"offense", "defense", "injury", "momentum"}

// tierOrder is the ascending tier ladder used for monotonicity checks
var tierOrder = []string{"LEAN", "MODERATE", "STRONG", "MAX"}

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	for _, entry := range []struct {
		name string
		lc   *LeagueConfig
	}{
		{"nfl", &cfg.Leagues.NFL},
		{"cfb", &cfg.Leagues.CFB},
	} {
		if err := validateLeague(entry.name, entry.lc); err != nil {
			return err
		}
	}

	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.Publish.Redis.Enabled && cfg.Publish.Redis.Addr == "" {
		return fmt.Errorf("publish.redis.addr is required when the redis sink is enabled")
	}

	return nil
}

// validateLeague checks the invariants a league tuning block must satisfy:
// component weights covering the full set and summing to 1.0, a monotonic
// tier probability ladder, and a suppression ceiling above the MAX tier.
func validateLeague(name string, lc *LeagueConfig) error {
	sum := 0.0
	for _, component := range ratingComponentNames {
		weight, ok := lc.ComponentWeights[component]
		if !ok {
			return fmt.Errorf("league %s: missing component weight for %q", name, component)
		}
		if weight < 0 || weight > 1 {
			return fmt.Errorf("league %s: component weight for %q must be within [0,1]", name, component)
		}
		sum += weight
	}
	if len(lc.ComponentWeights) != len(ratingComponentNames) {
		return fmt.Errorf("league %s: unexpected component weight entries", name)
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("league %s: component weights must sum to 1.0, got %.4f", name, sum)
	}

	prev := 0.0
	for _, tier := range tierOrder {
		p, ok := lc.TierWinProbability[tier]
		if !ok {
			return fmt.Errorf("league %s: missing tier win probability for %s", name, tier)
		}
		if p <= 0.5 || p >= 1 {
			return fmt.Errorf("league %s: tier win probability for %s must be within (0.5, 1)", name, tier)
		}
		if p <= prev {
			return fmt.Errorf("league %s: tier win probabilities must be strictly increasing, %s breaks the ladder", name, tier)
		}
		prev = p
	}

	if lc.SuppressionCeiling <= lc.TierThresholds.Max {
		return fmt.Errorf("league %s: suppression_ceiling must exceed the MAX tier threshold", name)
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte", "gtfield":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
