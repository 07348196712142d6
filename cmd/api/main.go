package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopkeeperhq/shopkeeper-backend/api/routes"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/checkout"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/ledger"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/settings"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/migrate"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	outboxSvc := outbox.NewService(outbox.NewRepository(conn), logg)

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn), outboxSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	itemRepo := inventory.NewRepository(conn)
	inventorySvc, err := inventory.NewService(dbClient, itemRepo, ledgerSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	settingsSvc, err := settings.NewService(settings.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.NewService(dbClient, checkout.NewRepository(conn), itemRepo, ledgerSvc, settingsSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			IdemStore: redisClient,
			Inventory: inventorySvc,
			Checkout:  checkoutSvc,
			Ledger:    ledgerSvc,
			Settings:  settingsSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
