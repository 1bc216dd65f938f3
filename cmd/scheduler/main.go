package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadqual_backend/internal/adapters/storage"
	"leadqual_backend/internal/events"
	"leadqual_backend/internal/results"
	"leadqual_backend/internal/scheduler"
	"leadqual_backend/internal/scoring"
	"leadqual_backend/platform/config"
	"leadqual_backend/platform/db"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the scheduler")
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	classifier, closeClassifier, err := scoring.NewClassifier(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize intent classifier", "error", err)
		panic("failed to initialize intent classifier: " + err.Error())
	}
	defer closeClassifier()

	val := validator.New()

	// Worker-side wiring; no HTTP handlers are mounted in this process.
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		storageSvc = minioSvc
	}
	scoringModule := scoring.NewModule(pool, classifier, eventBus, nil, val, cfg, log)
	resultsModule := results.NewModule(pool, storageSvc, cfg, eventBus, val, log)

	if resultsModule.Service().ExportsEnabled() {
		exportCleanup := scheduler.NewExportCleanup(resultsModule.Service(), log, cfg.GetExportCleanupInterval(), cfg.GetExportRetention())
		go exportCleanup.Run(ctx)
	}

	worker, err := scheduler.NewWorker(cfg, scoringModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
