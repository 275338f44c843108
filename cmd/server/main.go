package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/config"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/infra"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/router"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async alert pipeline: low-stock events go through the Redis queue and
	// out via SMTP, with a circuit breaker so a dead mail server cannot pile
	// up retries.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker("smtp", infra.CircuitBreakerConfig{
		FailureThreshold: cfg.SMTPFailureThreshold,
		OpenTimeout:      time.Duration(cfg.SMTPOpenTimeoutMin) * time.Minute,
	})
	dispatcher := worker.NewDispatcher(rdb)

	workerHandlers := &worker.WorkerHandlers{
		Alerts: worker.NewAlertWorker(mailer, smtpCB, cfg.AlertEmailTo),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Periodic reconcile of the cached products.stock column against the
	// movement ledger, which is the source of truth.
	worker.StartReconcileCron(ctx, worker.ReconcileCronConfig{
		ProductRepo:  repository.NewProductRepository(db),
		MovementRepo: repository.NewStockMovementRepository(db),
		Interval:     time.Duration(cfg.ReconcileIntervalMin) * time.Minute,
	})

	r := router.New(cfg, db, rdb, dispatcher, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("tienda backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
