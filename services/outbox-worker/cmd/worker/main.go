package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httpx "toolplanet/services/outbox-worker/internal/http"
	"toolplanet/services/outbox-worker/internal/outbox"
	"toolplanet/shared/pkg/config"
	"toolplanet/shared/pkg/logger"
	"toolplanet/shared/pkg/rabbit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New("outbox-worker", cfg.Common.LogLevel)
	if err := cfg.RequireRelay(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctxDB, cancelDB := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDB()
	db, err := pgxpool.New(ctxDB, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("pg connect failed")
	}
	defer db.Close()

	rc, err := rabbit.Connect(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbit connect failed")
	}
	defer func() { _ = rc.Close() }()

	if err := rabbit.DeclareBase(rc.Ch); err != nil {
		log.Fatal().Err(err).Msg("declare base failed")
	}

	store := &outbox.StorePG{DB: db}
	runner := &outbox.Runner{
		Log:          log,
		Store:        store,
		EventsPub:    rabbit.NewPublisher(rc.Ch, rabbit.ExchangeEvents),
		DeadPub:      rabbit.NewPublisher(rc.Ch, rabbit.ExchangeDLX),
		PollInterval: 500 * time.Millisecond,
		BatchSize:    50,
		MaxAttempts:  10,
		BackoffMax:   60 * time.Second,
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Run(appCtx)

	httpSrv := &http.Server{
		Addr:              cfg.OutboxHTTP.Addr,
		Handler:           (&httpx.Server{Outbox: store}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("http started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http failed")
		}
	}()

	log.Info().Msg("outbox-worker started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutdown...")
	cancel()
	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = httpSrv.Shutdown(shCtx)
}
