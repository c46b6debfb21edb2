package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rwooga-storefront/internal/apiclient"
	"rwooga-storefront/internal/config"
	"rwooga-storefront/internal/db"
	"rwooga-storefront/internal/httpserver"
	"rwooga-storefront/internal/logging"
	adminsvc "rwooga-storefront/internal/service/admin"
	catalogsvc "rwooga-storefront/internal/service/catalog"
	checkoutsvc "rwooga-storefront/internal/service/checkout"
	intakesvc "rwooga-storefront/internal/service/intake"
	"rwooga-storefront/internal/site"
	"rwooga-storefront/internal/workspace"
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

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	backend, err := db.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store backend", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer backend.Close()

	client := apiclient.New(apiclient.Options{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		VerifyMode: apiclient.VerifyMode(cfg.VerifyEmailMode),
		Logger:     logger,
	})

	registry := workspace.NewRegistry(backend.Store, client, cfg.WorkspaceIdleTTL, logger)
	siteStore := site.New(registry.Site())

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Registry:       registry,
		Catalog:        catalogsvc.New(client, logger),
		Admin:          adminsvc.New(siteStore, logger),
		Intake:         intakesvc.New(siteStore, cfg.WhatsAppNumber, logger),
		Checkout:       checkoutsvc.New(logger),
		Ready:          backend.Ping,
		AllowedOrigins: cfg.AllowedOrigins,
		ProfileCookie:  cfg.ProfileCookie,
		CookieSecure:   cfg.CookieSecure,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.StoreBackend))
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
	} else {
		logger.Info("server stopped")
	}
}
