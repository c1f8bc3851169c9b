package main

import (
	"context"
	"net/http"
	"os"

	"github.com/dermalink/dermalink-backend/api/routes"
	"github.com/dermalink/dermalink-backend/internal/auth"
	"github.com/dermalink/dermalink-backend/internal/users"
	"github.com/dermalink/dermalink-backend/pkg/config"
	"github.com/dermalink/dermalink-backend/pkg/logger"
	"github.com/dermalink/dermalink-backend/pkg/metrics"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
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

	if cfg.JWT.UsesDevSecrets() {
		logg.Warn(context.Background(), "jwt signing secrets are the built-in development defaults; set DERMALINK_JWT_SECRET and DERMALINK_REFRESH_TOKEN_SECRET in production")
	}

	registry := prometheus.NewRegistry()
	authMetrics := metrics.NewAuthMetrics(registry)

	store := users.NewStore(cfg.Password)
	userService, err := users.NewService(store, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:     userService,
		JWTConfig: cfg.JWT,
		Metrics:   authMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, registry, authService, userService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
