/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the points engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from .env / environment
  2. Initialize SQLite snapshot store
  3. Create the engine (seeds state on first run)
  4. Run a maintenance pass to settle anything owed while down
  5. Start the background scheduler
  6. Start HTTP server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler
  4. Close database connection
  5. Exit

ENVIRONMENT:
  PORT                HTTP server port (default: 8080)
  DB_PATH             SQLite database path (default: ./data/points.db)
                      Use ":memory:" for an in-memory database
  TIMEZONE            IANA zone for day/week rollover
  SCHEDULER_INTERVAL  Maintenance cadence (default: 10m)
  CORS_ORIGINS        Comma-separated allowed origins
  LOG_LEVEL           debug | info | warn | error

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/warp/points-engine/api"
	"github.com/warp/points-engine/config"
	"github.com/warp/points-engine/engine"
	"github.com/warp/points-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(cfg.LogLevel),
	})

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", "err", err)
	}
	defer store.Close()

	// Initialize engine
	ctx := context.Background()
	eng, err := engine.New(ctx, store,
		engine.WithZone(cfg.Location()),
		engine.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("failed to initialize engine", "err", err)
	}

	// Settle anything owed while the server was down
	if err := eng.RunMaintenance(ctx); err != nil {
		logger.Error("startup maintenance failed", "err", err)
	}

	scheduler := api.NewMaintenanceScheduler(eng, cfg.SchedulerInterval, logger)
	scheduler.Start()
	defer scheduler.Stop()

	// Create router and server
	handler := api.NewHandler(eng)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "zone", cfg.Timezone)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "err", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "err", err)
	}

	logger.Info("server stopped")
}

func parseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
