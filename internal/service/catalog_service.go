package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain/search"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/store"
)

// Cache tags used by the catalog. Mutations invalidate these; the
// cached read paths register their keys under them.
const (
	// TagFeaturedStores groups the featured-stores listing.
	TagFeaturedStores = "featured-stores"

	// TagUserStores groups every per-owner store listing.
	TagUserStores = "user-stores"
)

// featuredStoreLimit is the size of the featured listing.
const featuredStoreLimit = 4

// featuredStoresKey is the cache key of the featured listing; it takes
// no parameters so the slot is shared by all callers.
const featuredStoresKey = "featured-stores"

// userStoresKey returns the cache key of one owner's store listing.
// The owner id is part of the key so different owners never observe
// each other's cached rows.
func userStoresKey(ownerID uuid.UUID) string {
	return "user-stores:" + ownerID.String()
}

// SearchResult is the outcome of a store search. The search path is
// total: it never returns an error to its caller. Degraded is true
// when a validation or execution failure was mapped onto the empty
// page, so tests and internal callers can tell "matched nothing" from
// "failed"; external callers see the same empty page either way.
type SearchResult struct {
	Stores    []store.StoreRow
	PageCount int
	Degraded  bool
}

// CatalogConfig carries the cache lifetimes of the two memoized read
// paths.
type CatalogConfig struct {
	// FeaturedTTL bounds the featured listing. The production default
	// of one second is a soft debounce, not meaningful caching.
	FeaturedTTL time.Duration

	// UserStoresTTL bounds the per-owner listings.
	UserStoresTTL time.Duration
}

// CatalogService provides the catalog's read operations.
type CatalogService interface {
	// GetFeaturedStores returns up to four stores ordered by active
	// status, then product count, memoized behind the featured-stores
	// cache slot. Storage failures propagate to the caller.
	GetFeaturedStores(ctx context.Context) ([]store.StoreSummary, error)

	// GetUserStores returns all stores owned by ownerID, ordered like
	// the featured listing, memoized per owner. Storage failures
	// propagate to the caller.
	GetUserStores(ctx context.Context, ownerID uuid.UUID) ([]store.StoreSummary, error)

	// SearchStores resolves the raw request into a query plan and
	// executes it, returning one page plus the page count. It never
	// fails outward: any error yields an empty, degraded result and a
	// logged diagnostic.
	SearchStores(ctx context.Context, req search.Request) SearchResult

	// GetStore retrieves a single store by id, enriched with its
	// product count, for the detail view.
	// Returns ErrStoreNotFound if it does not exist.
	GetStore(ctx context.Context, id uuid.UUID) (*store.StoreRow, error)
}

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	storeRepo   store.StoreRepository
	productRepo store.ProductRepository
	cache       *cache.TagCache
	cfg         CatalogConfig
	logger      *slog.Logger
}

// NewCatalogService creates a new CatalogService.
// It returns an error if any of the required dependencies are nil.
func NewCatalogService(
	storeRepo store.StoreRepository,
	productRepo store.ProductRepository,
	tagCache *cache.TagCache,
	cfg CatalogConfig,
	logger *slog.Logger,
) (CatalogService, error) {
	if storeRepo == nil {
		return nil, errors.New("store repository cannot be nil")
	}
	if productRepo == nil {
		return nil, errors.New("product repository cannot be nil")
	}
	if tagCache == nil {
		return nil, errors.New("cache cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &catalogServiceImpl{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		cache:       tagCache,
		cfg:         cfg,
		logger:      logger.With(slog.String("component", "catalog_service")),
	}, nil
}

// GetFeaturedStores implements CatalogService.GetFeaturedStores
func (s *catalogServiceImpl) GetFeaturedStores(ctx context.Context) ([]store.StoreSummary, error) {
	return s.cachedSummaries(
		ctx,
		featuredStoresKey,
		[]string{TagFeaturedStores},
		s.cfg.FeaturedTTL,
		func(ctx context.Context) ([]store.StoreSummary, error) {
			return s.storeRepo.Featured(ctx, featuredStoreLimit)
		},
	)
}

// GetUserStores implements CatalogService.GetUserStores
func (s *catalogServiceImpl) GetUserStores(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]store.StoreSummary, error) {
	return s.cachedSummaries(
		ctx,
		userStoresKey(ownerID),
		[]string{TagUserStores},
		s.cfg.UserStoresTTL,
		func(ctx context.Context) ([]store.StoreSummary, error) {
			return s.storeRepo.ByOwner(ctx, ownerID)
		},
	)
}

// cachedSummaries wraps a summary query in the tag cache with a JSON
// codec. Failures from the underlying query or the codec propagate
// outward: the cached read paths have no fail-soft contract.
func (s *catalogServiceImpl) cachedSummaries(
	ctx context.Context,
	key string,
	tags []string,
	ttl time.Duration,
	fetch func(ctx context.Context) ([]store.StoreSummary, error),
) ([]store.StoreSummary, error) {
	payload, err := s.cache.GetOrCompute(ctx, key, tags, ttl,
		func(ctx context.Context) ([]byte, error) {
			summaries, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(summaries)
		})
	if err != nil {
		return nil, err
	}

	var summaries []store.StoreSummary
	if err := json.Unmarshal(payload, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode cached store summaries: %w", err)
	}
	return summaries, nil
}

// SearchStores implements CatalogService.SearchStores
func (s *catalogServiceImpl) SearchStores(ctx context.Context, req search.Request) SearchResult {
	log := s.logger

	plan, err := search.Resolve(req)
	if err != nil {
		log.Warn("store search request failed validation",
			slog.String("error", err.Error()),
			slog.Int("page", req.Page),
			slog.Int("per_page", req.PerPage))
		return SearchResult{Stores: []store.StoreRow{}, Degraded: true}
	}

	rows, total, err := s.storeRepo.Search(ctx, plan)
	if err != nil {
		log.Error("store search execution failed",
			slog.String("error", err.Error()))
		return SearchResult{Stores: []store.StoreRow{}, Degraded: true}
	}

	return SearchResult{
		Stores:    rows,
		PageCount: pageCount(total, plan.Limit),
	}
}

// GetStore implements CatalogService.GetStore
func (s *catalogServiceImpl) GetStore(ctx context.Context, id uuid.UUID) (*store.StoreRow, error) {
	st, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, NewStoreServiceError("get_store", "failed to load store", err)
	}

	count, err := s.productRepo.CountByStore(ctx, id)
	if err != nil {
		return nil, NewStoreServiceError("get_store", "failed to count products", err)
	}

	return &store.StoreRow{Store: *st, ProductCount: count}, nil
}

// pageCount computes ceil(total / perPage) without floating point.
func pageCount(total int64, perPage int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
