package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// JWT secrets
	if len(c.JWT.AccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if c.JWT.AccessSecret != "" && c.JWT.RefreshSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	// Anthropic
	if c.Anthropic.APIKey == "" {
		errs = append(errs, "ANTHROPIC_API_KEY is required")
	}
	if c.Anthropic.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("ANTHROPIC_MAX_TOKENS must be positive, got %d", c.Anthropic.MaxTokens))
	}
	if c.Anthropic.Temperature < 0 || c.Anthropic.Temperature > 1 {
		errs = append(errs, fmt.Sprintf("ANTHROPIC_TEMPERATURE must be between 0 and 1, got %g", c.Anthropic.Temperature))
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Throttle backend
	switch c.Throttle.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Sprintf("THROTTLE_BACKEND must be memory or redis, got %q", c.Throttle.Backend))
	}
	if c.Throttle.MaxRequests < 1 {
		errs = append(errs, fmt.Sprintf("THROTTLE_MAX_REQUESTS must be positive, got %d", c.Throttle.MaxRequests))
	}

	// Conversion limits
	if c.Conversion.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("CONVERSION_DAILY_LIMIT must be positive, got %d", c.Conversion.DailyLimit))
	}
	if c.Conversion.MaxSourceChars < 1 {
		errs = append(errs, fmt.Sprintf("CONVERSION_MAX_SOURCE_CHARS must be positive, got %d", c.Conversion.MaxSourceChars))
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be between 1 and 65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be between 1 and 65535, got %d", c.Redis.Port))
	}

	// NATS: warn only, history pipeline degrades to no-op without it
	if c.NATS.URL == "" {
		slog.Warn("NATS_URL is empty, conversion history events are disabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
