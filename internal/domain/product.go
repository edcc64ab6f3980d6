package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Product
var (
	ErrEmptyProductID      = errors.New("product ID cannot be empty")
	ErrEmptyProductStoreID = errors.New("product store ID cannot be empty")
)

// Product is an item belonging to exactly one store. Only its identity
// and store association matter to this layer; it exists to be counted
// and to be cascade-deleted with its store.
type Product struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProduct creates a new Product associated with the given store.
// Returns an error if validation fails.
func NewProduct(storeID uuid.UUID) (*Product, error) {
	p := &Product{
		ID:        uuid.New(),
		StoreID:   storeID,
		CreatedAt: time.Now().UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}

	if p.StoreID == uuid.Nil {
		return ErrEmptyProductStoreID
	}

	return nil
}
