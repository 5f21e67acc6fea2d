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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/KentJhon/itrack-backend/internal/app"
	"github.com/KentJhon/itrack-backend/internal/auth"
	"github.com/KentJhon/itrack-backend/internal/clock"
	"github.com/KentJhon/itrack-backend/internal/config"
	"github.com/KentJhon/itrack-backend/internal/storage/postgres"
	transporthttp "github.com/KentJhon/itrack-backend/internal/transport/http"
	"github.com/KentJhon/itrack-backend/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal().Err(err).Msg("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	clk := clock.NewSystem()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, clk)

	saleRepo := postgres.NewSaleRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)

	saleSvc := app.NewSaleService(saleRepo, clk)
	orderSvc := app.NewOrderService(orderRepo, clk,
		app.WithRestoreStockOnDelete(cfg.RestoreStockOnDelete))
	itemSvc := app.NewItemService(itemRepo)
	userSvc := app.NewUserService(userRepo)
	reportSvc := app.NewReportService(reportRepo)
	activitySvc := app.NewActivityService(activityRepo, clk, logger)

	handler := transporthttp.NewRouter(transporthttp.Services{
		Sales:     saleSvc,
		Orders:    orderSvc,
		Items:     itemSvc,
		Users:     userSvc,
		Auth:      userSvc,
		Reports:   reportSvc,
		Dashboard: reportSvc,
		Activity:  activitySvc,
		Recorder:  activitySvc,
		Tokens:    tokens,
	}, cfg.CORSOrigins, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info().Str("port", cfg.Port).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}
