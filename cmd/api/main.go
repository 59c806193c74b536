package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sidequest/sidequest-api/internal/config"
	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/server"
	"github.com/sidequest/sidequest-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Get()

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, db)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}

	if err := postgres.Close(db); err != nil {
		log.Error("Database close failed", "error", err)
	}

	log.Info("Server stopped")
}
