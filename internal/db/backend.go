package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rwooga-storefront/internal/config"
	"rwooga-storefront/internal/migrate"
	"rwooga-storefront/internal/storage"
)

// Backend is an opened store backend with its health probe.
type Backend struct {
	Store storage.Backend
	Ping  func(ctx context.Context) error
	close func()
}

// Close releases the connection behind the backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend connects the store backend selected by cfg.StoreBackend.
// Postgres schemas are migrated before use.
func OpenBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory store; state is lost on restart")
		return &Backend{Store: storage.NewMemory()}, nil

	case config.BackendPostgres:
		pool, err := Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrate.Apply(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		return &Backend{Store: storage.NewPostgres(pool), Ping: pool.Ping, close: pool.Close}, nil

	case config.BackendRedis:
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Backend{
			Store: storage.NewRedis(client),
			Ping:  func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: func() { _ = client.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
