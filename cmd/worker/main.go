package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/Pokedex/internal/config"
	"github.com/dharsanguruparan/Pokedex/internal/ingest"
	"github.com/dharsanguruparan/Pokedex/internal/s3storage"
	"github.com/dharsanguruparan/Pokedex/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.RedisEnabled() || !cfg.ObjectStoreEnabled() {
		return errors.New("worker requires POKEDEX_REDIS_ADDR and POKEDEX_S3_ENDPOINT")
	}

	store, err := s3storage.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.ProcessingPool,
	})
	ingester := ingest.New(store, ingest.NewHTTPClient(30*time.Second), logger)
	processor := worker.NewProcessor(ingester, logger)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	logger.Info("worker started", slog.Int("concurrency", cfg.ProcessingPool))
	return server.Run(processor.Handler())
}
