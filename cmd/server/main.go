package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/api"
	"github.com/maeulhub/maeul/internal/auth"
	"github.com/maeulhub/maeul/internal/cache"
	"github.com/maeulhub/maeul/internal/db"
	"github.com/maeulhub/maeul/internal/reconcile"
	"github.com/maeulhub/maeul/internal/service"
	"github.com/maeulhub/maeul/internal/store/postgres"
	"github.com/maeulhub/maeul/pkg/config"
	"github.com/maeulhub/maeul/pkg/logging"
	"github.com/maeulhub/maeul/pkg/telemetry"
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
	logger.Info("Starting Maeul API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the database and migrate the content tables
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis cache is optional; a nil cache disables caching
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	tokens, err := auth.NewManager(&cfg.Auth)
	if err != nil {
		logger.Fatal("Failed to initialize auth", zap.Error(err))
	}

	st := postgres.New(database.DB)
	svc := service.New(st, redisCache)

	// Background reconciliation: relabels placeholder slugs and recounts
	// drifting counters
	rootCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.Reconcile.Enabled {
		sweeper := reconcile.NewSweeper(st, cfg.Reconcile.BatchSize)
		go sweeper.Run(rootCtx, cfg.Reconcile.Interval)
	}

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Health checks ping the database and, when configured, Redis
	checks := []api.HealthChecker{database}
	if redisCache != nil {
		checks = append(checks, redisCache)
	}
	api.NewRouter(svc, tokens, checks...).SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSweeper()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
