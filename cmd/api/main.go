package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jcastellanos/marketcart-backend/api/routes"
	authsvc "github.com/jcastellanos/marketcart-backend/internal/auth"
	ordersvc "github.com/jcastellanos/marketcart-backend/internal/orders"
	productsvc "github.com/jcastellanos/marketcart-backend/internal/products"
	usersvc "github.com/jcastellanos/marketcart-backend/internal/users"
	"github.com/jcastellanos/marketcart-backend/pkg/auth/session"
	"github.com/jcastellanos/marketcart-backend/pkg/config"
	"github.com/jcastellanos/marketcart-backend/pkg/db"
	"github.com/jcastellanos/marketcart-backend/pkg/env"
	"github.com/jcastellanos/marketcart-backend/pkg/logger"
	"github.com/jcastellanos/marketcart-backend/pkg/metrics"
	"github.com/jcastellanos/marketcart-backend/pkg/migrate"
	"github.com/jcastellanos/marketcart-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	usersRepo := usersvc.NewRepository(dbClient.DB())
	productsRepo := productsvc.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())

	userService, err := usersvc.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersRepo, productsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(usersRepo, sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Metrics:  httpMetrics,
			Gatherer: registry,
			Auth:     authService,
			Users:    userService,
			Products: productService,
			Orders:   orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
