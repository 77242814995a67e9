package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"koalgroup/internal/config"
	"koalgroup/internal/infra"
	"koalgroup/internal/repository"
	"koalgroup/internal/router"
	"koalgroup/internal/token"
	"koalgroup/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger, pretty in development and JSON in production
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.AutoMigrate {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Report pipeline: the pool renders queued reports and delivers them by
	// mail; the sweeper picks up reports whose render failed or was never queued.
	mailCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Name: "smtp"})
	dispatcher := worker.NewDispatcher(rdb)
	dlq := worker.NewDeadLetters(rdb)
	reportRepo := repository.NewReportRepository(db)

	var sender worker.Sender
	var emailQueue worker.EmailQueue
	if mailer := infra.NewMailer(cfg); mailer != nil {
		sender, emailQueue = mailer, dispatcher
	} else {
		log.Info().Msg("SMTP_HOST not set, report emails disabled")
	}

	reportWorker := worker.NewReportWorker(worker.ReportWorkerConfig{
		Reports: reportRepo,
		Sources: worker.Sources{
			Projects:   repository.NewProjectRepository(db),
			Production: repository.NewProductionRecordRepository(db),
			AccessLogs: repository.NewAccessLogRepository(db),
		},
		DLQ:         dlq,
		Email:       emailQueue,
		StoragePath: cfg.ReportStorage,
	})
	worker.NewPool(rdb, reportWorker, worker.NewEmailWorker(sender, mailCB, dlq)).Start(ctx, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{Reports: reportRepo, Worker: reportWorker})

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL(), token.NewRedisDenylist(rdb))
	r := router.New(ctx, cfg, router.Deps{
		DB:     db,
		Redis:  rdb,
		Issuer: issuer,
		Queue:  dispatcher,
		MailCB: mailCB,
		DLQ:    dlq,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("KOAL backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
