package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/codeshift-app/codeshift/internal/api"
	"github.com/codeshift-app/codeshift/internal/auth"
	"github.com/codeshift-app/codeshift/internal/config"
	"github.com/codeshift-app/codeshift/internal/conversion"
	"github.com/codeshift-app/codeshift/internal/database"
	"github.com/codeshift-app/codeshift/internal/history"
	inats "github.com/codeshift-app/codeshift/internal/nats"
	"github.com/codeshift-app/codeshift/internal/quota"
	iredis "github.com/codeshift-app/codeshift/internal/redis"
	"github.com/codeshift-app/codeshift/internal/server"
	"github.com/codeshift-app/codeshift/internal/throttle"
	"github.com/codeshift-app/codeshift/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS is optional: without it conversions still work, history is just
	// not recorded.
	var natsClient *inats.Client
	var publisher conversion.HistoryPublisher
	if cfg.NATS.URL != "" {
		natsClient, err = inats.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		publisher = inats.NewPublisher(natsClient.JetStream())
	}

	// Auth
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authSvc := auth.NewService(jwtManager, redisClient)
	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo)
	authHandler := auth.NewHandler(authSvc, userSvc)

	// Per-origin throttle
	var throttleStore throttle.Store
	switch cfg.Throttle.Backend {
	case "redis":
		throttleStore = throttle.NewRedisStore(redisClient, cfg.Throttle.MaxRequests, cfg.Throttle.Window)
	default:
		throttleStore = throttle.NewMemoryStore(cfg.Throttle.MaxRequests, cfg.Throttle.Window, cfg.Throttle.MaxEntries)
	}

	// Per-user quota
	quotaRepo := quota.NewRepository(pool)
	quotaSvc := quota.NewService(quotaRepo, cfg.Conversion.DailyLimit)

	// Conversion pipeline
	invoker := conversion.NewAnthropicInvoker(cfg.Anthropic)
	cache, err := conversion.NewCache(cfg.Conversion.CacheTTL)
	if err != nil {
		slog.Error("creating conversion cache", "error", err)
		os.Exit(1)
	}
	conversionSvc := conversion.NewService(invoker, quotaSvc, cache, publisher, cfg.Conversion.MaxSourceChars)
	extractor := conversion.NewExtractor(invoker)
	conversionHandler := conversion.NewHandler(conversionSvc, extractor, quotaSvc, cfg.Throttle.Window)

	// History
	historyRepo := history.NewRepository(pool)
	historyHandler := history.NewHandler(historyRepo)

	if natsClient != nil {
		consumerMgr := inats.NewConsumerManager(natsClient.JetStream())
		historyConsumer := history.NewConsumer(historyRepo, consumerMgr)
		go func() {
			if err := historyConsumer.Start(ctx); err != nil {
				slog.Error("history consumer stopped", "error", err)
			}
		}()
	}

	// Router
	router := api.NewRouter(pool, natsClient,
		api.RouterConfig{CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins},
		api.HandlerSet{
			Register: authHandler.Register,
			Login:    authHandler.Login,
			Refresh:  authHandler.Refresh,
			Logout:   authHandler.Logout,

			Convert:            conversionHandler.Convert,
			Upload:             conversionHandler.Upload,
			GetQuota:           conversionHandler.GetQuota,
			SupportedLanguages: conversionHandler.SupportedLanguages,
			RateLimitInfo:      conversionHandler.RateLimitInfo,
			ListHistory:        historyHandler.ListHistory,

			AuthMiddleware:     auth.Middleware(authSvc),
			ThrottleMiddleware: throttle.Middleware(throttleStore),
		})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
