// Package main is the entry point for the Pokedex API server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/dharsanguruparan/Pokedex/internal/bootstrap"
	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/ingest"
	"github.com/dharsanguruparan/Pokedex/internal/processing"
	"github.com/dharsanguruparan/Pokedex/internal/queue"
	"github.com/dharsanguruparan/Pokedex/internal/s3storage"
	"github.com/dharsanguruparan/Pokedex/internal/server"
	"github.com/dharsanguruparan/Pokedex/internal/validation"
)

func main() {
	// Step 1: configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Step 2: a context that cancels when SIGINT/SIGTERM arrive.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run owns every resource it opens, so its defers have finished by the time
// main decides the exit code.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Step 3: dependencies.
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	defer closeStore()

	g, gctx := errgroup.WithContext(ctx)
	opts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithValidator(validation.New()),
	}

	var images server.ImageSource
	if cfg.ObjectStoreEnabled() {
		objects, err := s3storage.New(cfg)
		if err != nil {
			return fmt.Errorf("object store init: %w", err)
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = objects.EnsureBucket(bucketCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}
		images = objects

		if cfg.RedisEnabled() {
			client := asynq.NewClient(asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer client.Close()
			opts = append(opts, catalog.WithImageQueue(queue.NewImageQueue(client)))
			logger.Info("image ingest via asynq", slog.String("redis", cfg.RedisAddr))
		} else {
			ingester := ingest.New(objects, ingest.NewHTTPClient(30*time.Second), logger)
			pool := processing.New(ingester.Ingest, cfg.ProcessingPool, logger)
			pool.Start(gctx)
			g.Go(func() error {
				<-gctx.Done()
				pool.Wait()
				return nil
			})
			opts = append(opts, catalog.WithImageQueue(pool))
			logger.Info("image ingest in process", slog.Int("workers", cfg.ProcessingPool))
		}
	} else {
		logger.Info("object store disabled, serving images from disk", slog.String("dir", cfg.ImageDir))
	}

	svc := catalog.NewService(store, opts...)
	srv := server.New(cfg, svc, images, logger)

	// Step 4: block until the HTTP server and workers exit.
	g.Go(func() error { return srv.Serve(gctx) })
	return g.Wait()
}
