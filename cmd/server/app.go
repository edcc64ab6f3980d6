package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Cache tier; redisStore is nil when the in-process backend is used.
	redisStore *cache.RedisStore
	tagCache   *cache.TagCache

	// Stores (using interfaces for proper abstraction)
	storeRepo   store.StoreRepository
	productRepo store.ProductRepository

	// Service interfaces
	catalogService service.CatalogService
	storeService   service.StoreService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize repositories
	app.storeRepo = postgres.NewPostgresStoreRepository(db, logger)
	app.productRepo = postgres.NewPostgresProductRepository(db, logger)

	// Initialize the cache backend
	var backend cache.Store
	if cfg.Cache.RedisURL != "" {
		redisStore, err := cache.NewRedisStoreFromURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		app.redisStore = redisStore
		backend = redisStore
		logger.Info("Cache backend initialized", "backend", "redis")
	} else {
		backend = cache.NewMemoryStore()
		logger.Info("Cache backend initialized", "backend", "memory")
	}

	app.tagCache = cache.NewTagCache(backend, logger)

	// Initialize services
	var err error
	app.catalogService, err = service.NewCatalogService(
		app.storeRepo,
		app.productRepo,
		app.tagCache,
		service.CatalogConfig{
			FeaturedTTL:   time.Duration(cfg.Cache.FeaturedTTL) * time.Second,
			UserStoresTTL: time.Duration(cfg.Cache.UserStoresTTL) * time.Second,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog service: %w", err)
	}
	logger.Info("Catalog service initialized",
		"featured_ttl_seconds", cfg.Cache.FeaturedTTL,
		"user_stores_ttl_seconds", cfg.Cache.UserStoresTTL)

	app.storeService, err = service.NewStoreService(
		app.storeRepo,
		app.productRepo,
		store.NewSQLTransactor(db),
		app.tagCache,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store service: %w", err)
	}

	return app, nil
}

// cleanup closes the application's long-lived resources. It is called
// after the HTTP server has shut down.
func (app *application) cleanup() {
	if app.redisStore != nil {
		if err := app.redisStore.Close(); err != nil {
			app.logger.Error("Failed to close redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
