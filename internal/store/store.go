package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/domain/search"
)

// StoreRow is a store enriched with its aggregated product count, as
// produced by the search executor's outer join. A store with zero
// products carries a count of 0, never an absent value.
type StoreRow struct {
	domain.Store
	ProductCount int64 `json:"product_count"`
}

// StoreSummary is the trimmed projection served by the cached featured
// and per-owner listings.
type StoreSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StripeAccountID *string   `json:"stripe_account_id"`
}

// StoreRepository defines the interface for store data persistence.
type StoreRepository interface {
	// Create saves a new store. Returns ErrStoreNameExists if the
	// name is already taken (unique index backstop) and validation
	// errors if the store data is invalid.
	Create(ctx context.Context, s *domain.Store) error

	// GetByID retrieves a store by its unique ID.
	// Returns ErrStoreNotFound if the store does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error)

	// ExistsByName reports whether a store other than excludeID
	// already holds the given name. Pass uuid.Nil to check against
	// all stores. Case sensitivity follows the database collation.
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// UpdateDetails modifies an existing store's name and description.
	// The slug is left untouched. Returns ErrStoreNotFound if the
	// store does not exist and ErrStoreNameExists on a name collision.
	UpdateDetails(ctx context.Context, id uuid.UUID, name, description string) error

	// Delete removes a store row by its ID.
	// Returns ErrStoreNotFound if the store does not exist.
	//
	// IMPORTANT: deleting a store must be accompanied by deleting its
	// products within the same transaction (see ProductRepository.DeleteByStore).
	// Use WithTx and RunInTransaction so a mid-sequence failure rolls
	// back both deletes and no orphan products can persist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search executes a resolved query plan and returns one page of
	// enriched rows plus the total count of matching stores. Both are
	// read from a single consistent snapshot: the page and the total
	// agree even under concurrent writes.
	Search(ctx context.Context, plan *search.Plan) ([]StoreRow, int64, error)

	// Featured returns up to limit stores ordered by active status
	// (stores with a stripe account first), then by descending
	// product count.
	Featured(ctx context.Context, limit int) ([]StoreSummary, error)

	// ByOwner returns all stores owned by ownerID, ordered the same
	// way as Featured.
	ByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreSummary, error)

	// WithTx returns a StoreRepository bound to the given transaction.
	// The transaction is created and managed by the caller, typically
	// through RunInTransaction.
	WithTx(tx *sql.Tx) StoreRepository
}
