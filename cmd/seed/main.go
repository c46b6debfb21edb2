package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"rwooga-storefront/internal/config"
	"rwooga-storefront/internal/db"
	"rwooga-storefront/internal/logging"
	"rwooga-storefront/internal/seed"
	"rwooga-storefront/internal/site"
	"rwooga-storefront/internal/storage"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	backend, err := db.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store backend", zap.Error(err))
	}
	defer backend.Close()

	store := site.New(storage.Scope(backend.Store, storage.SiteScope, logger))
	if err := seed.Apply(ctx, store, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
}
