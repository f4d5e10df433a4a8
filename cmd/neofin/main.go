package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valeriaulyamaeva/neofin/internal/bank"
	"github.com/valeriaulyamaeva/neofin/internal/config"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/handlers"
	"github.com/valeriaulyamaeva/neofin/internal/importer"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
	"github.com/valeriaulyamaeva/neofin/internal/jobs/inmemory"
	"github.com/valeriaulyamaeva/neofin/internal/logger"
	"github.com/valeriaulyamaeva/neofin/internal/notify"
	"github.com/valeriaulyamaeva/neofin/internal/realtime"
	"github.com/valeriaulyamaeva/neofin/internal/routes"
	"github.com/valeriaulyamaeva/neofin/internal/scheduler"
	"github.com/valeriaulyamaeva/neofin/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Schema migration failed")
	}

	// Realtime: one LISTEN connection fans out to registry channels.
	registry := realtime.NewRegistry(log)
	registry.OnFirst = func(channel string) {
		log.Debug().Str("channel", channel).Msg("First listener subscribed")
	}
	registry.OnLast = func(channel string) {
		log.Debug().Str("channel", channel).Msg("Last listener left")
	}
	feed := realtime.NewFeed(cfg.DatabaseURL, registry, log)
	go func() {
		if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Change feed stopped")
		}
	}()
	hub := realtime.NewHub(registry, cfg.AllowedOrigins, log)

	notifier := notify.NewService(&notify.PgStore{DB: pool}, log)

	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(cfg.JobBuffer, cfg.JobWorkers, jobStore, log)
	imp := importer.New(&importer.PgStore{DB: pool}, notifier, log)
	queue.Register(jobs.JobTypeImportStatement, imp.Handle)
	if err := queue.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Job queue failed to start")
	}

	schedStore := &scheduler.PgStore{DB: pool}
	sched := scheduler.New(schedStore, notifier, scheduler.Options{ArchiveAfterMonths: cfg.ArchiveAfterMonths}, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Scheduler failed to start")
	}

	rates := utils.NewExchangeRates(cfg.ExchangeAPIURL, log)
	proxy := bank.NewProxy(bank.Config{
		BaseURL: cfg.BankAPIURL,
		Timeout: cfg.BankAPITimeout,
		Rate:    cfg.BankAPIRate,
	}, log)

	router := routes.SetupRouter(routes.Deps{
		DB:             pool,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Notifier:       notifier,
		Scanner:        sched,
		Transactions:   schedStore,
		Converter:      rates,
		Jobs:           queue,
		JobStore:       jobStore,
		Hub:            hub,
		Bank:           proxy,
		Monitor: handlers.Monitor{
			DB:       pool,
			Registry: registry,
			Feed:     feed,
			Hub:      hub,
			Queue:    queue,
		},
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	sched.Stop()
	if err := queue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	log.Info().Msg("Server exited")
}
