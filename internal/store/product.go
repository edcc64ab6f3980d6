package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// ProductRepository defines the interface for product data persistence.
// Products matter to this layer only as countable, cascade-deletable
// children of a store.
type ProductRepository interface {
	// Create saves a new product. Returns ErrInvalidEntity if the
	// owning store does not exist (foreign key violation).
	Create(ctx context.Context, p *domain.Product) error

	// CountByStore returns the number of products belonging to the
	// given store. A store with no products yields 0.
	CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error)

	// DeleteByStore removes every product belonging to the given
	// store and returns how many rows were deleted. Zero products is
	// not an error.
	//
	// IMPORTANT: when called as part of a store deletion this MUST run
	// in the same transaction as StoreRepository.Delete.
	DeleteByStore(ctx context.Context, storeID uuid.UUID) (int64, error)

	// WithTx returns a ProductRepository bound to the given transaction.
	WithTx(tx *sql.Tx) ProductRepository
}
