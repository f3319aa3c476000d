package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// The cleaner purges expired session rows on an interval. Redis entries
// expire on their own; this keeps the Postgres table from growing forever.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Yatube Session Cleaner")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	sessions := db.NewSessionRepository(db.NewRepository(database.DB))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Auth.CleanupInterval)
	defer ticker.Stop()

	logger.Info("Cleaner running", zap.Duration("interval", cfg.Auth.CleanupInterval))

	purge(sessions, logger)
	for {
		select {
		case <-ticker.C:
			purge(sessions, logger)
		case <-quit:
			logger.Info("Cleaner exited")
			return
		}
	}
}

func purge(sessions *db.SessionRepository, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to purge expired sessions", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("Purged expired sessions", zap.Int64("count", removed))
	}
}
