// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rediscoveru/internal/config"
	"rediscoveru/internal/domain/ports/adapter"
	payAdapters "rediscoveru/internal/infra/adapters/payment"
	pg "rediscoveru/internal/infra/db/postgres"
	"rediscoveru/internal/infra/logging"
	"rediscoveru/internal/infra/metrics"
	red "rediscoveru/internal/infra/redis"
	"rediscoveru/internal/infra/web"
	"rediscoveru/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateway, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	couponRepo := pg.NewPostgresCouponRepo(pool)
	paymentRepo := pg.NewPostgresPaymentRepo(pool)
	settingsRepo := pg.NewSettingsRepoCacheDecorator(pg.NewPostgresSettingsRepo(pool), redisClient, cfg.Redis.TTL)

	// ---- Payment gateway ----
	var gateway adapter.OrderGateway
	if cfg.Runtime.Dev && cfg.Gateway.Razorpay.KeyID == "" {
		gateway = payAdapters.NewNoopOrderGateway()
		logger.Warn().Msg("no gateway credentials; using noop gateway")
	} else {
		gateway, err = payAdapters.NewRazorpayGateway(
			cfg.Gateway.Razorpay.KeyID,
			cfg.Gateway.Razorpay.KeySecret,
			cfg.Gateway.Razorpay.WebhookSecret,
		)
		if err != nil {
			log.Fatalf("razorpay gateway: %v", err)
		}
	}
	logger.Info().Str("gateway", gateway.Name()).Msg("payment gateway configured")

	// ---- Use cases ----
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logger)
	couponUC := usecase.NewCouponUseCase(couponRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo)
	purchaseUC := usecase.NewPurchaseUseCase(userRepo, couponRepo, paymentRepo, settingsUC, gateway, tm, logger)

	// ---- HTTP server ----
	srv := web.NewServer(
		purchaseUC, couponUC, settingsUC, userUC,
		web.NewTokenVerifier(cfg.Auth.JWTSecret),
		rateLimiter, cfg.Purchase.RateLimit, cfg.Purchase.RateLimitWindow, red.InitiateKey,
		cfg.Admin.APIKey,
		logger,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
