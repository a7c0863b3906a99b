package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tastefinder/discovery-service/internal/ai"
	"github.com/tastefinder/discovery-service/internal/cache"
	"github.com/tastefinder/discovery-service/internal/config"
	"github.com/tastefinder/discovery-service/internal/event"
	"github.com/tastefinder/discovery-service/internal/handler"
	"github.com/tastefinder/discovery-service/internal/repository"
	"github.com/tastefinder/discovery-service/internal/router"
	"github.com/tastefinder/discovery-service/internal/service"
	"github.com/tastefinder/discovery-service/seeds"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("database not ready")
	}
	logger.Info().Msg("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrate(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate down")
		}
		logger.Info().Msg("migrations dropped")
		return
	}

	if err := migrate(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate up")
	}
	logger.Info().Msg("migrations applied")

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to check seed")
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	listingCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := listingCache.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	logger.Info().Msg("connected to Redis")

	// ------------ Wiring ---------------
	repo := repository.NewRepository(pool)
	gateway := ai.NewClient(ai.Config{BaseURL: cfg.AIBaseURL, Timeout: cfg.AITimeout}, logger)

	var publisher service.ReviewPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Msg("review events enabled")
	}

	svc := service.NewService(repo, repo, listingCache, gateway, publisher, logger)
	h := handler.NewHandler(svc, logger)

	// ---------------- Server --------------------
	logger.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := http.ListenAndServe(cfg.Addr(), router.Setup(h)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Info().Msgf("waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrate(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count); err != nil {
		return fmt.Errorf("check restaurants count: %w", err)
	}
	if count > 0 {
		logger.Info().Int("restaurants", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool, logger)
}
