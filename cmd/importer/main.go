package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"rwooga-storefront/internal/config"
	"rwooga-storefront/internal/db"
	"rwooga-storefront/internal/importer"
	"rwooga-storefront/internal/logging"
	"rwooga-storefront/internal/site"
	"rwooga-storefront/internal/storage"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a listings CSV (id,name,description,price,currency,category,image,available)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	store := site.New(storage.Scope(backend.Store, storage.SiteScope, logger))
	imp := importer.NewCSVImporter(f, store, logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %d listings in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
