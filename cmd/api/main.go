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
	"go.uber.org/multierr"

	"github.com/ardidrizi/inventory-saas/api/routes"
	"github.com/ardidrizi/inventory-saas/internal/audit"
	"github.com/ardidrizi/inventory-saas/internal/auth"
	"github.com/ardidrizi/inventory-saas/internal/dashboard"
	"github.com/ardidrizi/inventory-saas/internal/orders"
	"github.com/ardidrizi/inventory-saas/internal/products"
	"github.com/ardidrizi/inventory-saas/internal/users"
	"github.com/ardidrizi/inventory-saas/pkg/config"
	"github.com/ardidrizi/inventory-saas/pkg/db"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
	"github.com/ardidrizi/inventory-saas/pkg/metrics"
	"github.com/ardidrizi/inventory-saas/pkg/migrate"
	"github.com/ardidrizi/inventory-saas/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logg.Error(ctx, "error closing database", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				logg.Error(ctx, "error closing redis", closeErr)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	auditRepo := audit.NewRepository(dbClient.DB())
	recorder, err := audit.NewRecorder(auditRepo, logg)
	if err != nil {
		return err
	}
	auditService, err := audit.NewService(auditRepo)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		Recorder:       recorder,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}
	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Recorder: recorder,
	})
	if err != nil {
		return err
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(products.ServiceParams{
		Repo:     productRepo,
		Recorder: recorder,
	})
	if err != nil {
		return err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Tx:       dbClient,
		Products: productRepo,
		Recorder: recorder,
		Metrics:  orderMetrics,
	})
	if err != nil {
		return err
	}

	dashboardParams := dashboard.ServiceParams{
		Repo:     dashboard.NewRepository(dbClient.DB()),
		Products: productRepo,
		Logger:   logg,
		Config:   cfg.Dashboard,
	}
	if redisClient != nil {
		dashboardParams.Cache = redisClient
	}
	dashboardService, err := dashboard.NewService(dashboardParams)
	if err != nil {
		return err
	}

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
		Auth:        authService,
		Users:       userService,
		Products:    productService,
		Orders:      orderService,
		Audit:       auditService,
		Dashboard:   dashboardService,
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErrs error
	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrs = multierr.Append(shutdownErrs, err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		shutdownErrs = multierr.Append(shutdownErrs, err)
	}
	return shutdownErrs
}
