// One-shot reconciliation run, for operators who want to repair placeholder
// slugs or counter drift outside the server's periodic sweep.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/db"
	"github.com/maeulhub/maeul/internal/reconcile"
	"github.com/maeulhub/maeul/internal/store/postgres"
	"github.com/maeulhub/maeul/pkg/config"
	"github.com/maeulhub/maeul/pkg/logging"
)

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
	logger.Info("Starting reconciliation run")

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sweeper := reconcile.NewSweeper(postgres.New(database.DB), cfg.Reconcile.BatchSize)
	if err := sweeper.Sweep(ctx); err != nil {
		logger.Fatal("Sweep failed", zap.Error(err))
	}

	logger.Info("Reconciliation run complete")
}
