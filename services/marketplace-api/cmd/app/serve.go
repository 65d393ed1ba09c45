package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"toolplanet/services/marketplace-api/internal/auth"
	"toolplanet/services/marketplace-api/internal/booking"
	httpx "toolplanet/services/marketplace-api/internal/http"
	"toolplanet/services/marketplace-api/internal/http/handlers"
	"toolplanet/services/marketplace-api/internal/payment"
	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/cache"
	"toolplanet/shared/pkg/config"
	"toolplanet/shared/pkg/logger"
)

const serviceName = "marketplace-api"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func connectPG(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctxDB, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctxDB, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctxDB); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// productStore wraps Postgres with the Redis read cache when REDIS_ADDR is set
// and reachable.
func productStore(ctx context.Context, cfg config.Config, db *pgxpool.Pool, log zerolog.Logger) (handlers.ProductStore, func()) {
	pg := &repo.ProductsPG{DB: db}
	if cfg.Redis.Addr == "" {
		return pg, func() {}
	}

	rdb := cache.New(cfg.Redis.Addr)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, continue without cache")
		_ = rdb.Close()
		return pg, func() {}
	}
	return &repo.ProductsCached{PG: pg, Redis: rdb, TTL: cfg.Redis.ProductTTL}, func() { _ = rdb.Close() }
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPI(); err != nil {
		return err
	}
	log := logger.New(serviceName, cfg.Common.LogLevel)

	tokens, err := auth.NewTokenService(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		return err
	}

	db, err := connectPG(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error().Err(err).Msg("pg connect failed")
		return err
	}
	defer db.Close()

	products, closeCache := productStore(ctx, cfg, db, log)
	defer closeCache()

	users := &repo.UsersPG{DB: db}
	orders := &repo.OrdersPG{DB: db, Outbox: &repo.OutboxPG{}}
	processor := payment.NewStripe(cfg.Payment.StripeSecretKey, cfg.Payment.Timeout, cfg.Payment.StripeAPIURL)

	router := httpx.NewRouter(httpx.Options{
		Service: serviceName,
		Log:     log,
		Gate:    &auth.Gate{Tokens: tokens},
		Roles:   users,
	}, &httpx.Handlers{
		Products: &handlers.ProductsHandler{Store: products},
		Users:    &handlers.UsersHandler{Store: users, Tokens: tokens},
		Orders: &handlers.OrdersHandler{
			Booking: booking.NewService(orders, log),
			Store:   orders,
			Users:   users,
		},
		Reviews:  &handlers.ReviewsHandler{Store: &repo.ReviewsPG{DB: db}},
		Profiles: &handlers.ProfilesHandler{Store: &repo.ProfilesPG{DB: db}},
		Payments: &handlers.PaymentsHandler{
			Payments: payment.NewService(processor, payment.Config{
				Timeout:         cfg.Payment.Timeout,
				AllowZeroAmount: cfg.Payment.AllowZeroAmount,
			}, log),
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http failed")
			return err
		}
	case <-sigCtx.Done():
	}

	log.Info().Msg("shutdown...")
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	return srv.Shutdown(shCtx)
}
