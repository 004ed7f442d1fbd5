package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"rediscoveru/internal/config"
	pg "rediscoveru/internal/infra/db/postgres"
	"rediscoveru/internal/infra/logging"
	"rediscoveru/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// Settings row: Get creates the default when missing.
	settingsRepo := pg.NewPostgresSettingsRepo(pool)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logger)
	settings, err := settingsUC.Get(ctx)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	fmt.Printf("settings: %s lifetime price %s\n", settings.PlatformName, settings.LifetimePrice.StringFixed(2))

	// Stock coupons; existing codes are left untouched.
	couponUC := usecase.NewCouponUseCase(pg.NewPostgresCouponRepo(pool), logger)
	if err := couponUC.SeedDefaults(ctx); err != nil {
		log.Fatalf("seed coupons: %v", err)
	}
	coupons, err := couponUC.List(ctx)
	if err != nil {
		log.Fatalf("list coupons: %v", err)
	}
	for _, c := range coupons {
		max := "unlimited"
		if c.MaxUsage != nil {
			max = fmt.Sprintf("%d", *c.MaxUsage)
		}
		fmt.Printf("  - %s (%d%%, max=%s, used=%d, active=%t)\n", c.Code, c.DiscountPercentage, max, c.UsageCount, c.Active)
	}

	fmt.Println("Seeding complete.")
}
