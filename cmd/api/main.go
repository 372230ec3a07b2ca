package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fsenterprise/billing-backend/api/routes"
	"github.com/fsenterprise/billing-backend/internal/bills"
	"github.com/fsenterprise/billing-backend/internal/customers"
	"github.com/fsenterprise/billing-backend/internal/expenses"
	"github.com/fsenterprise/billing-backend/internal/reports"
	"github.com/fsenterprise/billing-backend/internal/stock"
	"github.com/fsenterprise/billing-backend/pkg/config"
	"github.com/fsenterprise/billing-backend/pkg/db"
	"github.com/fsenterprise/billing-backend/pkg/logger"
	"github.com/fsenterprise/billing-backend/pkg/metrics"
	"github.com/fsenterprise/billing-backend/pkg/migrate"
	"github.com/fsenterprise/billing-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	customerCache, err := customers.NewCache(redisClient, logg, cfg.Billing.RecentCustomerLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer cache", err)
		os.Exit(1)
	}

	stockRepo := stock.NewRepository(dbClient.DB())
	stockService, err := stock.NewService(stockRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	billService, err := bills.NewService(
		dbClient,
		bills.NewRepository(dbClient.DB()),
		stockRepo,
		logg,
		customerCache,
		cfg.Billing.RestockOnDelete,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create bill service", err)
		os.Exit(1)
	}

	expenseService, err := expenses.NewService(expenses.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create expense service", err)
		os.Exit(1)
	}

	reportService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			registry,
			dbClient,
			redisClient,
			stockService,
			billService,
			expenseService,
			reportService,
			customerCache,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			_ = server.Close()
		}
	}
}
