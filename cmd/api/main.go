// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the blog HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Run database migrations (idempotent).
//  6. Wire the post domain and health handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-blog/internal/api"
	"github.com/taibuivan/yomira-blog/internal/platform/config"
	"github.com/taibuivan/yomira-blog/internal/platform/constants"
	"github.com/taibuivan/yomira-blog/internal/platform/metrics"
	"github.com/taibuivan/yomira-blog/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-blog/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomira-blog/internal/platform/redis"
	"github.com/taibuivan/yomira-blog/internal/post"
)

// poolStatsInterval is how often connection pool gauges are refreshed.
const poolStatsInterval = 15 * time.Second

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("list_cache", cfg.CacheEnabled()),
	)

	// Startup deadline so a misconfigured dependency fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	poolStats := metrics.NewPoolStatsCollector(pool)
	poolStats.Start(poolStatsInterval)
	defer poolStats.Stop()

	// ── 4. Redis (optional list cache) ────────────────────────────────────
	var rdb *goredis.Client
	if cfg.CacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers ────────────────────────────────────────────────
	deps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		deps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(deps, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	var postRepository post.Repository = post.NewPostgresRepository(pool)
	if rdb != nil {
		postRepository = post.NewCachedRepository(postRepository, rdb, cfg.ListCacheTTL, log)
	}
	postService := post.NewService(postRepository, log)
	postHandler := post.NewHandler(postService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Post:      postHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger and installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
