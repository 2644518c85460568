// Command slugs assigns slugs to job postings saved without one.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/observability"
	"github.com/spec-kit/job-board/internal/persistence"
	"github.com/spec-kit/job-board/internal/repository"
	"github.com/spec-kit/job-board/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		logger.Error("POSTGRES_DSN is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect postgres", zap.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	jobs := service.NewJobService(service.JobDependencies{
		JobRepo: repository.NewJobRepository(pg.PoolHandle()),
		Logger:  logger,
	})
	updated, err := jobs.BackfillSlugs(ctx)
	if err != nil {
		logger.Error("slug backfill failed", zap.Int("updated", updated), zap.Error(err))
		pg.Close()
		os.Exit(1)
	}
	logger.Info("slug backfill finished", zap.Int("updated", updated))
}
