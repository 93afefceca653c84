// Package cli holds the startup plumbing shared by the growfin binaries:
// env loading, config resolution, logger setup and SQLite initialization.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/config"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/log"
	"github.com/sanjaii1/grow-financial-goals-sub000/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Missing files
// are fine; deployments configure through real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// MustLoadConfig resolves and validates configuration, exiting the
// process when it is unusable. Runs before SetupLogger, so failures go
// through the bootstrap slog default.
func MustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger builds the process logger from the configured level and
// format and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	logger := log.New(log.Config{
		Level:     level,
		Component: component,
		Handler:   handler,
	})
	log.SetDefault(logger)
	return logger
}

// InitSQLite opens the SQLite repository and runs migrations, exiting
// when the database is unusable.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// NotifyShutdown returns a context cancelled on SIGINT or SIGTERM.
func NotifyShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
