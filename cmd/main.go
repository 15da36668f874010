package main

import (
	"notes-service/internal/router"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting notes service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if cfg.SeedData {
		if err := database.Seed(db); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
		log.Info("Seed data ensured")
	}

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	e := router.New(db)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
