package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "codeshift",
			Password: "secret", Name: "codeshift", SSLMode: "disable", MaxConns: 25,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		JWT: JWTConfig{
			AccessSecret:  "access-secret-that-is-at-least-32-chars!",
			RefreshSecret: "refresh-secret-that-is-at-least-32-chr!",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
		},
		Anthropic: AnthropicConfig{
			APIKey: "sk-test", Model: "claude-3-5-sonnet-20240620",
			MaxTokens: 4096, Temperature: 0.2, Timeout: 90 * time.Second,
			MaxCallsPerSecond: 2,
		},
		Conversion: ConversionConfig{MaxSourceChars: 5000, DailyLimit: 20, CacheTTL: 15 * time.Minute},
		Throttle:   ThrottleConfig{Backend: "memory", MaxRequests: 20, Window: 24 * time.Hour, MaxEntries: 10000},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_JWTAccessSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = "short"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "JWT_ACCESS_SECRET") {
		t.Fatalf("expected JWT_ACCESS_SECRET error, got: %v", err)
	}
}

func TestValidate_JWTSecretsMustDiffer(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = "the-same-secret-that-is-at-least-32-chars!"
	cfg.JWT.RefreshSecret = "the-same-secret-that-is-at-least-32-chars!"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected 'must differ' error, got: %v", err)
	}
}

func TestValidate_AnthropicKeyRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Anthropic.APIKey = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY is required") {
		t.Fatalf("expected ANTHROPIC_API_KEY required error, got: %v", err)
	}
}

func TestValidate_TemperatureOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Anthropic.Temperature = 1.5
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_TEMPERATURE") {
		t.Fatalf("expected ANTHROPIC_TEMPERATURE error, got: %v", err)
	}
}

func TestValidate_DBPasswordRequired(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Fatalf("expected DB_PASSWORD error, got: %v", err)
	}
}

func TestValidate_UnknownThrottleBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Throttle.Backend = "memcached"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "THROTTLE_BACKEND") {
		t.Fatalf("expected THROTTLE_BACKEND error, got: %v", err)
	}
}

func TestValidate_InvalidPorts(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.DB.Port = 99999
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected port validation errors")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected SERVER_PORT error in: %v", err)
	}
	if !strings.Contains(err.Error(), "DB_PORT") {
		t.Errorf("expected DB_PORT error in: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		Server:     ServerConfig{Port: 8080},
		DB:         DBConfig{Port: 5432},
		Redis:      RedisConfig{Port: 6379},
		Conversion: ConversionConfig{MaxSourceChars: 5000, DailyLimit: 20},
		Throttle:   ThrottleConfig{Backend: "memory", MaxRequests: 20},
		Anthropic:  AnthropicConfig{MaxTokens: 4096},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple validation errors")
	}
	errStr := err.Error()
	for _, substr := range []string{"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "ANTHROPIC_API_KEY", "DB_PASSWORD"} {
		if !strings.Contains(errStr, substr) {
			t.Errorf("expected %q in error: %s", substr, errStr)
		}
	}
}
