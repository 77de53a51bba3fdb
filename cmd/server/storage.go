package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"

	"github.com/rpggio/eggsim/internal/config"
	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/redisstore"
	"github.com/rpggio/eggsim/internal/sqlite"
)

const redisConnectRetries = 5

// openRepository opens the configured save backend. The returned func releases it.
func openRepository(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (save.Repository, func(), error) {
	switch cfg.Backend {
	case "redis":
		return openRedis(ctx, cfg, logger)
	default:
		return openSQLite(cfg, logger)
	}
}

func openSQLite(cfg config.StorageConfig, logger *slog.Logger) (save.Repository, func(), error) {
	if err := ensureDBDir(cfg.DBPath); err != nil {
		return nil, nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("sqlite save store ready", "path", cfg.DBPath, "history_depth", cfg.HistoryDepth)
	return sqlite.NewSaveRepository(db, cfg.HistoryDepth), func() { db.Close() }, nil
}

func openRedis(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (save.Repository, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	repo := redisstore.NewSaveRepository(client, redisstore.Config{TTL: cfg.RedisTTL}, logger)

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), redisConnectRetries), ctx)
	err := backoff.Retry(func() error {
		if err := repo.Ping(ctx); err != nil {
			logger.Warn("redis connection failed, retrying", "addr", cfg.RedisAddr, "error", err)
			return err
		}
		return nil
	}, policy)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("redis save store ready", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
	return repo, func() { client.Close() }, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
