package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aarothfresh/orderflow/internal/config"
	"github.com/aarothfresh/orderflow/internal/stubapi"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// The dev server does not need API_BASE_URL; default it so Load passes
	if os.Getenv("API_BASE_URL") == "" {
		os.Setenv("API_BASE_URL", "http://localhost:8080")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting orderflow dev server",
		zap.String("port", cfg.DevServer.Port),
		zap.String("environment", cfg.Environment),
	)

	server := stubapi.NewServer(cfg.DevServer.APIKey, logger)
	server.SeedDemo()

	srv := &http.Server{
		Addr:         ":" + cfg.DevServer.Port,
		Handler:      server.Router(cfg.Environment),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Dev server started", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down dev server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Dev server exited")
}
