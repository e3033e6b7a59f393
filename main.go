package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/config"
	"github.com/Casglez3/login-register-backend/internal/repository"
	"github.com/Casglez3/login-register-backend/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize and run the server
	userRepo := repository.NewUserRepository(db, logger)
	srv := server.NewServer(userRepo, cfg, logger)
	srv.Run(cfg.Server.Port)
}
