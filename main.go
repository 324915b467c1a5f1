package main

import (
	"log/slog"
	"os"

	"github.com/avelis/habitdo/internal/config"
	"github.com/avelis/habitdo/internal/database"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/avelis/habitdo/internal/server"
	"github.com/avelis/habitdo/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	configureLogging(cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewAPITokenRepository(db)
	authService := services.NewAuthService(cfg, userRepo, tokenRepo)

	srv := server.New(db, cfg, authService)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func configureLogging(level string) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}
