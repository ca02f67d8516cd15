/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the working-time engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env and environment)
  2. Parse command-line flags (override the configuration)
  3. Initialize SQLite store with the tenant defaults
  4. Import HOLIDAYS_FILE when configured
  5. Create API handler and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: PORT or 8080)
  -db      SQLite database path (default: DATABASE_PATH or worktime.db)
           Use ":memory:" for in-memory database
  -env     .env file to load (default: .env)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - config/config.go: Environment keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/api"
	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/holiday"
	"github.com/warp/worktime-engine/store/sqlite"
)

func main() {
	envFile := flag.String("env", ".env", ".env file to load")
	port := flag.Int("port", 0, "HTTP server port (overrides PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DATABASE_PATH)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	log := cfg.Logger()

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	store.WithDefaultSettings(cfg.Settings())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HolidaysFile != "" {
		if _, err := holiday.NewImporter(store, log).ImportFile(ctx, cfg.HolidaysFile); err != nil {
			log.WithError(err).Warn("failed to import public holidays")
		}
	}

	handler := api.NewHandler(store, log).WithLockWindow(cfg.LockDaysInPast)
	router := api.NewRouter(handler, cfg.CORSAllowedOrigins...)

	log.Infof("API available at http://localhost:%d/api", cfg.Port)
	if err := api.Serve(ctx, cfg.Addr(), router, log); err != nil {
		log.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
}
