// Command api runs the obituary HTTP service: REST API with bearer tokens
// plus a small server-rendered UI with cookie sessions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/obituaryapp/obituary-api/internal/api"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/config"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/db/postgres"
	"github.com/obituaryapp/obituary-api/internal/infrastructure/db/redis"
	"github.com/obituaryapp/obituary-api/pkg/logger"
)

const (
	connectAttempts = 5
	shutdownTimeout = 10 * time.Second
)

// @title        Obituary API
// @version      1.0
// @description  API for managing obituary records
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; fall back to stderr.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Transient store errors are retried with bounded exponential backoff at
	// startup only; once serving, store failures surface per request.
	var db *gorm.DB
	backoff := retry.WithMaxRetries(connectAttempts, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var openErr error
		db, openErr = postgres.Open(cfg.Database.DSN)
		if openErr != nil {
			log.Warn().Err(openErr).Msg("postgres not ready, retrying")
			return retry.RetryableError(openErr)
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := postgres.Seed(ctx, db, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
