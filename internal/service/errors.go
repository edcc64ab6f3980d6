package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/storefront-api/internal/store"
)

// Common sentinel errors for the store services
var (
	// ErrStoreNotFound indicates that the store does not exist
	ErrStoreNotFound = errors.New("store not found")

	// ErrStoreNameTaken indicates that another store already holds the
	// requested name
	ErrStoreNameTaken = errors.New("store name already taken")
)

// StoreServiceError wraps errors from the store services with context.
type StoreServiceError struct {
	// Operation is the operation that failed (e.g., "add_store", "delete_store")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StoreServiceError.
func (e *StoreServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("store service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreServiceError) Unwrap() error {
	return e.Err
}

// NewStoreServiceError creates a new StoreServiceError.
// It returns known sentinel errors directly without wrapping, and maps
// store-level sentinels onto their service-level counterparts.
func NewStoreServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrStoreNotFound) || errors.Is(err, ErrStoreNameTaken) {
		return err
	}

	if errors.Is(err, store.ErrStoreNotFound) {
		return ErrStoreNotFound
	}
	if errors.Is(err, store.ErrStoreNameExists) || errors.Is(err, store.ErrDuplicate) {
		return ErrStoreNameTaken
	}

	return &StoreServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
