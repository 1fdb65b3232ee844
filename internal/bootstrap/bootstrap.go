// Package bootstrap assembles the store stack shared by the server binary and
// the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dharsanguruparan/Pokedex/internal/cache"
	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/database"
	"github.com/dharsanguruparan/Pokedex/internal/repository"
	"github.com/dharsanguruparan/Pokedex/internal/storage"
)

// OpenStore builds the configured store driver, wrapped in the Redis cache
// when one is configured. The returned func releases connections.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store storage.Store
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store = storage.NewMemoryStore(nil)
	case config.StoreDriverPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, closeAll, fmt.Errorf("connect database: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := database.EnsureSchema(ctx, pool); err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("ensure schema: %w", err)
		}
		store = repository.NewSnapshotRepository(pool, log)
	default:
		fs, err := storage.NewFileStore(cfg.DataFile, log)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open data file: %w", err)
		}
		store = fs
	}
	log.Info("store ready", slog.String("driver", cfg.StoreDriver))

	if cfg.RedisEnabled() {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			closeAll()
			return nil, func() {}, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { _ = rc.Close() })
		store = storage.NewCachedStore(store, rc, cfg.CacheTTL, log)
		log.Info("redis cache enabled", slog.String("addr", cfg.RedisAddr))
	}
	return store, closeAll, nil
}
