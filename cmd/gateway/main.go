package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notify-gateway/internal/adapters/kafka"
	"notify-gateway/internal/api/routes"
	"notify-gateway/internal/config"
	"notify-gateway/internal/database"
	"notify-gateway/internal/gateway"
	"notify-gateway/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := slog.Default()
	logger.Info("Starting notification gateway")

	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	userService := services.NewUserService(db)
	presenceService := services.NewPresenceService(redisClient)
	systemService := services.NewSystemService(redisClient, cfg.Gateway.MaintenanceFile)

	registry := gateway.NewRegistry(logger)
	catalog := gateway.NewEndpointCatalog()
	state := gateway.NewSystemStateNotifier(systemService)
	router := gateway.NewRouter(registry, catalog, state, presenceService, logger)
	lifecycle := gateway.NewLifecycleManager(
		registry,
		userService,
		presenceService,
		cfg.Gateway.AnonymousTTL,
		cfg.Gateway.AuthenticatedTTL,
		logger,
	)

	gw := gateway.New(registry, router, lifecycle, presenceService, logger)
	go gw.Run()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, gw, logger)
	go func() {
		if err := consumer.Run(consumerCtx); err != nil {
			logger.Error("Kafka consumer stopped", "error", err)
		}
	}()

	apiRouter := routes.NewRouter(gw, presenceService, cfg, logger)
	apiRouter.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiRouter.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Gateway shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopConsumer()
	gw.Stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Gateway stopped")
}
