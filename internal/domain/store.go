package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Common validation errors for Store
var (
	ErrEmptyStoreID       = errors.New("store ID cannot be empty")
	ErrEmptyStoreUserID   = errors.New("store user ID cannot be empty")
	ErrEmptyStoreName     = errors.New("store name cannot be empty")
	ErrStoreNameTooLong   = errors.New("store name cannot exceed 50 characters")
	ErrEmptyStoreSlug     = errors.New("store slug cannot be empty")
	ErrDescriptionTooLong = errors.New("store description cannot exceed 500 characters")
)

// MaxStoreNameLength is the maximum number of characters in a store name.
const MaxStoreNameLength = 50

// MaxStoreDescriptionLength is the maximum number of characters in a
// store description.
const MaxStoreDescriptionLength = 500

// Store represents a seller entity that owns zero or more products.
// A store's active status is derived, not stored: a store is active
// exactly when it has a Stripe account attached.
type Store struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Slug            string    `json:"slug"`
	StripeAccountID *string   `json:"stripe_account_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewStore creates a new Store owned by the given user.
// It generates a new UUID for the store ID, derives a URL-safe slug
// from the name, and sets the creation timestamp.
// Returns an error if validation fails.
func NewStore(userID uuid.UUID, name, description string) (*Store, error) {
	s := &Store{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Slug:        slug.Make(name),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the Store has valid data.
// Returns an error if any field fails validation.
func (s *Store) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptyStoreID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptyStoreUserID
	}

	if s.Name == "" {
		return ErrEmptyStoreName
	}

	if len(s.Name) > MaxStoreNameLength {
		return ErrStoreNameTooLong
	}

	if len(s.Description) > MaxStoreDescriptionLength {
		return ErrDescriptionTooLong
	}

	if s.Slug == "" {
		return ErrEmptyStoreSlug
	}

	return nil
}

// Active reports whether the store has a Stripe account attached.
// Presence of the account id is the store's activity signal.
func (s *Store) Active() bool {
	return s.StripeAccountID != nil
}

// Rename updates the store's name and description.
// The slug is intentionally left unchanged so existing links keep
// resolving. Returns an error if the new values fail validation.
func (s *Store) Rename(name, description string) error {
	prevName, prevDesc := s.Name, s.Description
	s.Name = name
	s.Description = description

	if err := s.Validate(); err != nil {
		s.Name = prevName
		s.Description = prevDesc
		return err
	}

	return nil
}
