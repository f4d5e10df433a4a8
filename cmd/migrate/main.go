package main

import (
	"context"
	"time"

	"github.com/valeriaulyamaeva/neofin/internal/config"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/logger"
)

// Applies the embedded schema and exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Схема базы данных применена")
}
