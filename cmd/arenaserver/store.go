package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/storage"
	"github.com/cory-johannsen/arena/internal/storage/memory"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

// openStore connects the configured backend and returns it with a close
// function that is safe to call more than once.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.CharacterStore, func(), error) {
	start := time.Now()
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory character store; data is lost on exit")
		return memory.NewStore(), func() {}, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(start)),
		)
		closed := false
		return postgres.NewCharacterRepository(pool), func() {
			if !closed {
				closed = true
				pool.Close()
			}
		}, nil

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("redis connected",
			zap.String("addr", cfg.Redis.Addr),
			zap.Duration("elapsed", time.Since(start)),
		)
		closed := false
		return redis.NewStore(client, nil), func() {
			if !closed {
				closed = true
				_ = client.Close()
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
