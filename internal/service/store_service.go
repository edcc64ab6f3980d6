package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// StoresListingPath is the navigation destination of a successful
// store deletion and the view invalidated by it.
const StoresListingPath = "/dashboard/stores"

// StoreDetailPath returns the detail view path of a store, invalidated
// when the store is updated.
func StoreDetailPath(id uuid.UUID) string {
	return StoresListingPath + "/" + id.String()
}

// Invalidator is the cache side channel the mutations use to mark
// entries stale. Implemented by cache.TagCache.
type Invalidator interface {
	// InvalidateTag marks every cache entry under tag stale.
	InvalidateTag(ctx context.Context, tag string) error

	// InvalidatePath marks a single view/path entry stale.
	InvalidatePath(ctx context.Context, path string) error
}

// DeleteOutcome is the success result of DeleteStore: a control
// transfer to a navigation destination rather than a returned value.
// Callers branch on (outcome, error) explicitly.
type DeleteOutcome struct {
	RedirectTo string
}

// StoreService coordinates the catalog's mutations: pre-condition
// checks, transactional writes, and post-commit cache invalidation.
type StoreService interface {
	// AddStore creates a store owned by ownerID after checking global
	// name uniqueness. Returns ErrStoreNameTaken on a name collision.
	AddStore(ctx context.Context, ownerID uuid.UUID, name, description string) error

	// UpdateStore renames/re-describes a store after checking name
	// uniqueness against every other store (a store may keep its own
	// name). Returns ErrStoreNameTaken or ErrStoreNotFound.
	UpdateStore(ctx context.Context, storeID uuid.UUID, name, description string) error

	// DeleteStore removes a store and all of its products in one
	// transaction. Returns ErrStoreNotFound if the store is absent;
	// on success the outcome is a redirect to the stores listing.
	DeleteStore(ctx context.Context, storeID uuid.UUID) (*DeleteOutcome, error)
}

// storeServiceImpl implements the StoreService interface
type storeServiceImpl struct {
	storeRepo   store.StoreRepository
	productRepo store.ProductRepository
	tx          store.Transactor
	invalidator Invalidator
	logger      *slog.Logger
}

// NewStoreService creates a new StoreService.
// It returns an error if any of the required dependencies are nil.
func NewStoreService(
	storeRepo store.StoreRepository,
	productRepo store.ProductRepository,
	tx store.Transactor,
	invalidator Invalidator,
	logger *slog.Logger,
) (StoreService, error) {
	if storeRepo == nil {
		return nil, errors.New("store repository cannot be nil")
	}
	if productRepo == nil {
		return nil, errors.New("product repository cannot be nil")
	}
	if tx == nil {
		return nil, errors.New("transactor cannot be nil")
	}
	if invalidator == nil {
		return nil, errors.New("invalidator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &storeServiceImpl{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		tx:          tx,
		invalidator: invalidator,
		logger:      logger.With(slog.String("component", "store_service")),
	}, nil
}

// AddStore implements StoreService.AddStore
func (s *storeServiceImpl) AddStore(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
) error {
	log := s.logger

	taken, err := s.storeRepo.ExistsByName(ctx, name, uuid.Nil)
	if err != nil {
		log.Error("failed to check name uniqueness",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return NewStoreServiceError("add_store", "failed to check name uniqueness", err)
	}
	if taken {
		log.Debug("store name already taken", slog.String("name", name))
		return ErrStoreNameTaken
	}

	newStore, err := domain.NewStore(ownerID, name, description)
	if err != nil {
		return NewStoreServiceError("add_store", "invalid store data", err)
	}

	if err := s.storeRepo.Create(ctx, newStore); err != nil {
		// The unique index is the backstop for the pre-check racing a
		// concurrent create with the same name.
		return NewStoreServiceError("add_store", "failed to create store", err)
	}

	s.invalidateTag(ctx, TagUserStores)

	log.Info("store added",
		slog.String("store_id", newStore.ID.String()),
		slog.String("user_id", ownerID.String()))
	return nil
}

// UpdateStore implements StoreService.UpdateStore
func (s *storeServiceImpl) UpdateStore(
	ctx context.Context,
	storeID uuid.UUID,
	name, description string,
) error {
	log := s.logger

	// Exclude the store being updated so a no-op rename succeeds.
	taken, err := s.storeRepo.ExistsByName(ctx, name, storeID)
	if err != nil {
		log.Error("failed to check name uniqueness",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return NewStoreServiceError("update_store", "failed to check name uniqueness", err)
	}
	if taken {
		log.Debug("store name already taken",
			slog.String("name", name),
			slog.String("store_id", storeID.String()))
		return ErrStoreNameTaken
	}

	if err := s.storeRepo.UpdateDetails(ctx, storeID, name, description); err != nil {
		return NewStoreServiceError("update_store", "failed to update store", err)
	}

	s.invalidateTag(ctx, TagUserStores)
	s.invalidatePath(ctx, StoreDetailPath(storeID))

	log.Info("store updated", slog.String("store_id", storeID.String()))
	return nil
}

// DeleteStore implements StoreService.DeleteStore
func (s *storeServiceImpl) DeleteStore(
	ctx context.Context,
	storeID uuid.UUID,
) (*DeleteOutcome, error) {
	log := s.logger

	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, NewStoreServiceError("delete_store", "failed to load store", err)
	}

	// The store row and its products go in one transaction: a failure
	// on either side rolls back both, so no orphan products can
	// persist and no half-deleted store is observable.
	err := s.tx.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txProductRepo := s.productRepo.WithTx(tx)
		txStoreRepo := s.storeRepo.WithTx(tx)

		deleted, err := txProductRepo.DeleteByStore(ctx, storeID)
		if err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		log.Debug("deleted products for store",
			slog.String("store_id", storeID.String()),
			slog.Int64("count", deleted))

		if err := txStoreRepo.Delete(ctx, storeID); err != nil {
			return fmt.Errorf("failed to delete store: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("store deletion transaction failed",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, NewStoreServiceError("delete_store", "failed to delete store", err)
	}

	s.invalidatePath(ctx, StoresListingPath)

	log.Info("store deleted", slog.String("store_id", storeID.String()))
	return &DeleteOutcome{RedirectTo: StoresListingPath}, nil
}

// invalidateTag marks a cache tag stale after a committed write.
// Invalidation failures are logged, not surfaced: the write has
// already committed and the entries age out by TTL regardless.
func (s *storeServiceImpl) invalidateTag(ctx context.Context, tag string) {
	if err := s.invalidator.InvalidateTag(ctx, tag); err != nil {
		s.logger.Warn("cache tag invalidation failed",
			slog.String("tag", tag),
			slog.String("error", err.Error()))
	}
}

// invalidatePath marks a view path stale after a committed write.
func (s *storeServiceImpl) invalidatePath(ctx context.Context, path string) {
	if err := s.invalidator.InvalidatePath(ctx, path); err != nil {
		s.logger.Warn("cache path invalidation failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
