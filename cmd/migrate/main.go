package main

import (
	"log"

	"coursecraft/internal/config"
	"coursecraft/internal/database"
	"coursecraft/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	l := logger.Get()
	defer l.Sync()

	if err := database.RunMigrations(cfg.GetDSN(), "database/migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	l.Info("Migrations completed successfully")
}
