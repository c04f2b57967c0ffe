// Package main provides the arena server binary: the character REST API and
// battle simulator backed by the configured character store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/api"
	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "arenaserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting arena server",
		zap.String("mode", cfg.Server.Mode),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("http_addr", cfg.HTTP.Addr()),
	)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening character store", zap.Error(err))
	}
	defer closeStore()

	engine, err := newEngine(cfg.Battle, logger)
	if err != nil {
		logger.Fatal("configuring battle engine", zap.Error(err))
	}

	svc := arena.NewService(store, engine, logger)
	router := api.NewRouter(svc, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", server.NewHTTPService(cfg.HTTP, router, logger))

	logger.Info("arena server initialized", zap.Duration("elapsed", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		closeStore()
		logger.Sync()
		log.Fatalf("%v", err)
	}
}

// newEngine builds the battle engine from cfg. A zero seed selects the
// crypto-backed dice source.
func newEngine(cfg config.BattleConfig, logger *zap.Logger) (*battle.Engine, error) {
	tieBreak, err := battle.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, fmt.Errorf("parsing tie-break: %w", err)
	}

	src := dice.NewCryptoSource()
	if cfg.Seed != 0 {
		logger.Warn("using seeded dice source", zap.Uint64("seed", cfg.Seed))
		src = dice.NewSeededSource(cfg.Seed)
	}

	return battle.NewEngine(dice.NewLoggedRoller(src, logger), battle.Config{
		TieBreak:   tieBreak,
		MaxRedraws: cfg.MaxRedraws,
		StartLine:  cfg.StartLine,
	}), nil
}
