package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	NATS       NATSConfig
	JWT        JWTConfig
	Anthropic  AnthropicConfig
	Conversion ConversionConfig
	Throttle   ThrottleConfig
	Log        LogConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	// MaxCallsPerSecond paces outbound requests to the Messages API.
	MaxCallsPerSecond float64
}

type ConversionConfig struct {
	// MaxSourceChars bounds the length of submitted source code.
	MaxSourceChars int
	// DailyLimit is the per-user conversion quota per calendar day.
	DailyLimit int
	// CacheTTL controls how long identical conversions are served from cache.
	CacheTTL time.Duration
}

type ThrottleConfig struct {
	// Backend is "memory" or "redis".
	Backend string
	// MaxRequests per origin per Window.
	MaxRequests int
	Window      time.Duration
	// MaxEntries caps the in-memory backend's origin map.
	MaxEntries int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               k.String("server.host"),
			Port:               k.Int("server.port"),
			CORSAllowedOrigins: splitList(k.String("server.cors.origins")),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		JWT: JWTConfig{
			AccessSecret:  k.String("jwt.access.secret"),
			RefreshSecret: k.String("jwt.refresh.secret"),
		},
		Anthropic: AnthropicConfig{
			APIKey:            k.String("anthropic.api.key"),
			Model:             k.String("anthropic.model"),
			MaxTokens:         k.Int("anthropic.max.tokens"),
			Temperature:       float32(k.Float64("anthropic.temperature")),
			MaxCallsPerSecond: k.Float64("anthropic.max.calls.per.second"),
		},
		Conversion: ConversionConfig{
			MaxSourceChars: k.Int("conversion.max.source.chars"),
			DailyLimit:     k.Int("conversion.daily.limit"),
		},
		Throttle: ThrottleConfig{
			Backend:     k.String("throttle.backend"),
			MaxRequests: k.Int("throttle.max.requests"),
			MaxEntries:  k.Int("throttle.max.entries"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "codeshift"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "codeshift"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Anthropic.Model == "" {
		cfg.Anthropic.Model = "claude-3-5-sonnet-20240620"
	}
	if cfg.Anthropic.MaxTokens == 0 {
		cfg.Anthropic.MaxTokens = 4096
	}
	if cfg.Anthropic.Temperature == 0 {
		cfg.Anthropic.Temperature = 0.2
	}
	if cfg.Anthropic.MaxCallsPerSecond == 0 {
		cfg.Anthropic.MaxCallsPerSecond = 2
	}
	if cfg.Conversion.MaxSourceChars == 0 {
		cfg.Conversion.MaxSourceChars = 5000
	}
	if cfg.Conversion.DailyLimit == 0 {
		cfg.Conversion.DailyLimit = 20
	}
	if cfg.Throttle.Backend == "" {
		cfg.Throttle.Backend = "memory"
	}
	if cfg.Throttle.MaxRequests == 0 {
		cfg.Throttle.MaxRequests = 20
	}
	if cfg.Throttle.MaxEntries == 0 {
		cfg.Throttle.MaxEntries = 10000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	cfg.JWT.AccessExpiry, err = parseDuration(k.String("jwt.access.expiry"), "15m")
	if err != nil {
		return nil, fmt.Errorf("parsing jwt access expiry: %w", err)
	}
	cfg.JWT.RefreshExpiry, err = parseDuration(k.String("jwt.refresh.expiry"), "168h")
	if err != nil {
		return nil, fmt.Errorf("parsing jwt refresh expiry: %w", err)
	}
	cfg.Anthropic.Timeout, err = parseDuration(k.String("anthropic.timeout"), "90s")
	if err != nil {
		return nil, fmt.Errorf("parsing anthropic timeout: %w", err)
	}
	cfg.Conversion.CacheTTL, err = parseDuration(k.String("conversion.cache.ttl"), "15m")
	if err != nil {
		return nil, fmt.Errorf("parsing conversion cache ttl: %w", err)
	}
	cfg.Throttle.Window, err = parseDuration(k.String("throttle.window"), "24h")
	if err != nil {
		return nil, fmt.Errorf("parsing throttle window: %w", err)
	}

	return cfg, nil
}

func parseDuration(s, fallback string) (time.Duration, error) {
	if s == "" {
		s = fallback
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
