package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethanbaker/taskmanager/internal/api"
	"github.com/ethanbaker/taskmanager/pkg/utils"
	"go.uber.org/zap"
)

// Start the web server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	logger, err := utils.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	server, err := api.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
}
