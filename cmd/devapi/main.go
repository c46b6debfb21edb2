package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rwooga-storefront/internal/config"
	"rwooga-storefront/internal/devapi"
	"rwooga-storefront/internal/logging"
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

	dev, err := devapi.New(devapi.Options{
		JWTSecret:     cfg.DevJWTSecret,
		AdminEmail:    cfg.DevAdminEmail,
		AdminPassword: cfg.DevAdminPassword,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("init dev api", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.DevAPIAddr,
		Handler:           dev.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting dev api", zap.String("addr", cfg.DevAPIAddr), zap.String("admin", cfg.DevAdminEmail))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
