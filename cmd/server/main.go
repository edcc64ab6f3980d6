// Package main implements the entry point for the storefront API server
// which serves the catalog's cached store listings, the dynamic store
// search, and the store mutation endpoints.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/phrazzld/storefront-api/internal/api"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires the application together, and blocks
// serving HTTP until shutdown.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := runMigrations(db, appLogger); err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	router := api.NewRouter(app.catalogService, app.storeService)

	return app.startHTTPServer(ctx, router)
}
