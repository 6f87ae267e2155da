package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/counselbook/reserve/internal/app"
	"github.com/counselbook/reserve/internal/config"
	"github.com/counselbook/reserve/internal/controller/httpapi"
	"github.com/counselbook/reserve/internal/mail"
	"github.com/counselbook/reserve/internal/repository"
	"github.com/counselbook/reserve/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	tokenRepo := repository.NewLinkTokenRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	mailer := mail.NewLogMailer(logger)

	slotService := service.NewSlotService(slotRepo, logger)
	linkService := service.NewLinkTokenService(tokenRepo, userRepo, mailer, cfg.AppURL, cfg.DefaultLinkHours, logger)
	bookingService := service.NewBookingService(linkService, slotRepo, bookingRepo, mailer, logger)
	reserveService := service.NewReserveService(linkService, userRepo, slotRepo, logger)

	handler := httpapi.NewHandler(slotService, linkService, bookingService, reserveService, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		RateLimitPerSec: cfg.RateLimitPerSec,
		RateLimitBurst:  cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting reservation server",
			zap.String("environment", cfg.Environment),
			zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
