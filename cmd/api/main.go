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

	"github.com/guiamercado/guiamercado-backend/api"
	"github.com/guiamercado/guiamercado-backend/api/routes"
	"github.com/guiamercado/guiamercado-backend/internal/auth"
	"github.com/guiamercado/guiamercado-backend/internal/lists"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/internal/users"
	"github.com/guiamercado/guiamercado-backend/pkg/auth/session"
	"github.com/guiamercado/guiamercado-backend/pkg/config"
	"github.com/guiamercado/guiamercado-backend/pkg/db"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
	"github.com/guiamercado/guiamercado-backend/pkg/metrics"
	"github.com/guiamercado/guiamercado-backend/pkg/migrate"
	"github.com/guiamercado/guiamercado-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	closeAll := func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing connections", err)
		}
	}

	handler, err := buildHandler(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		closeAll()
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := api.NewServer(addr, handler)
	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case runErr = <-serveErr:
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	runErr = multierr.Append(runErr, server.Shutdown(shutdownCtx))
	closeAll()

	if runErr != nil {
		logg.Error(ctx, "api server stopped unexpectedly", runErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func buildHandler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics := metrics.NewDomainMetrics(reg)
	limits := cfg.Pagination.Limits()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		SessionConfig:  cfg.Session,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo, limits, domainMetrics)
	if err != nil {
		return nil, err
	}

	supermarketRepo := supermarkets.NewRepository(dbClient.DB())
	supermarketService, err := supermarkets.NewService(supermarketRepo)
	if err != nil {
		return nil, err
	}

	priceService, err := prices.NewService(prices.ServiceParams{
		Repo:         prices.NewRepository(dbClient.DB()),
		Products:     productRepo,
		Supermarkets: supermarketRepo,
		Limits:       limits,
		Metrics:      domainMetrics,
	})
	if err != nil {
		return nil, err
	}

	listService, err := lists.NewService(lists.ServiceParams{
		Repo:     lists.NewRepository(dbClient.DB()),
		DB:       dbClient,
		Products: productRepo,
	})
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:           dbClient,
		Redis:        redisClient,
		Sessions:     sessionManager,
		HTTPMetrics:  metrics.NewHTTPMetrics(reg),
		Gatherer:     reg,
		Auth:         authService,
		Products:     productService,
		Supermarkets: supermarketService,
		Prices:       priceService,
		Lists:        listService,
	}), nil
}
