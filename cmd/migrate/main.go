package main

import (
	"context"
	"time"

	"github.com/librarydesk/library-admin/internal/infrastructure/db/postgres"
	"github.com/librarydesk/library-admin/internal/pkg/config"
	"github.com/librarydesk/library-admin/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "library-migrate",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("schema up to date")
}
