package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/settings"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/metrics"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/migrate"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/outbox"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/sheets"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sheet-sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sheet-sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sheet-sync-worker",
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

	sheetsClient, err := sheets.New(context.Background(), cfg.Sheets)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap sheets client", err)
		os.Exit(1)
	}

	settingsSvc, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to build settings service", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(dbClient.DB()),
		Profiles:   settingsSvc,
		Sheets:     sheetsClient,
		Metrics:    jobMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sheet sync service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "sheet-sync-worker",
	})

	go serveMetrics(ctx, cfg, logg)

	logg.Info(ctx, "starting sheet sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sheet sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sheet sync worker shutting down gracefully")
}

// serveMetrics exposes the worker's Prometheus metrics on the process port.
func serveMetrics(ctx context.Context, cfg *config.Config, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + cfg.App.Port, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}
