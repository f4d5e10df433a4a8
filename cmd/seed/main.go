package main

import (
	"context"
	"flag"
	"time"

	"github.com/valeriaulyamaeva/neofin/internal/config"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/logger"
	"github.com/valeriaulyamaeva/neofin/utils"
)

func main() {
	var (
		users  = flag.Int("users", 3, "number of demo users")
		first  = flag.Int("first-user", 1, "id of the first demo user")
		months = flag.Int("months", 12, "months of transaction history per user")
		seed   = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	gen := utils.NewGenerator(*seed)
	for uid := *first; uid < *first+*users; uid++ {
		if _, err := utils.SeedUser(ctx, pool, gen, uid, *months, log); err != nil {
			log.Fatal().Err(err).Int("user_id", uid).Msg("Seeding failed")
		}
	}
	log.Info().Int("users", *users).Int64("seed", *seed).Msg("Демо-данные созданы")
}
