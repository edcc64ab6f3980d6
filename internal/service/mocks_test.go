package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/domain/search"
	"github.com/phrazzld/storefront-api/internal/store"
)

// mockStoreRepo implements store.StoreRepository with overridable
// function fields. Unset operations fail the zero-value way (not
// found / no-op) so tests only configure what they assert on.
type mockStoreRepo struct {
	createFn       func(ctx context.Context, s *domain.Store) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Store, error)
	existsByNameFn func(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	updateFn       func(ctx context.Context, id uuid.UUID, name, description string) error
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	searchFn       func(ctx context.Context, plan *search.Plan) ([]store.StoreRow, int64, error)
	featuredFn     func(ctx context.Context, limit int) ([]store.StoreSummary, error)
	byOwnerFn      func(ctx context.Context, ownerID uuid.UUID) ([]store.StoreSummary, error)

	createCalls   int
	featuredCalls int
	byOwnerCalls  int
	deleteCalls   int

	// lastExcludeID records the exclusion passed to ExistsByName.
	lastExcludeID uuid.UUID
}

func (m *mockStoreRepo) Create(ctx context.Context, s *domain.Store) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockStoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrStoreNotFound
}

func (m *mockStoreRepo) ExistsByName(
	ctx context.Context,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	m.lastExcludeID = excludeID
	if m.existsByNameFn != nil {
		return m.existsByNameFn(ctx, name, excludeID)
	}
	return false, nil
}

func (m *mockStoreRepo) UpdateDetails(
	ctx context.Context,
	id uuid.UUID,
	name, description string,
) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, name, description)
	}
	return nil
}

func (m *mockStoreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockStoreRepo) Search(
	ctx context.Context,
	plan *search.Plan,
) ([]store.StoreRow, int64, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, plan)
	}
	return []store.StoreRow{}, 0, nil
}

func (m *mockStoreRepo) Featured(ctx context.Context, limit int) ([]store.StoreSummary, error) {
	m.featuredCalls++
	if m.featuredFn != nil {
		return m.featuredFn(ctx, limit)
	}
	return []store.StoreSummary{}, nil
}

func (m *mockStoreRepo) ByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]store.StoreSummary, error) {
	m.byOwnerCalls++
	if m.byOwnerFn != nil {
		return m.byOwnerFn(ctx, ownerID)
	}
	return []store.StoreSummary{}, nil
}

func (m *mockStoreRepo) WithTx(tx *sql.Tx) store.StoreRepository {
	return m
}

// mockProductRepo implements store.ProductRepository.
type mockProductRepo struct {
	countByStoreFn  func(ctx context.Context, storeID uuid.UUID) (int64, error)
	deleteByStoreFn func(ctx context.Context, storeID uuid.UUID) (int64, error)

	deleteByStoreCalls int
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return nil
}

func (m *mockProductRepo) CountByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	if m.countByStoreFn != nil {
		return m.countByStoreFn(ctx, storeID)
	}
	return 0, nil
}

func (m *mockProductRepo) DeleteByStore(
	ctx context.Context,
	storeID uuid.UUID,
) (int64, error) {
	m.deleteByStoreCalls++
	if m.deleteByStoreFn != nil {
		return m.deleteByStoreFn(ctx, storeID)
	}
	return 0, nil
}

func (m *mockProductRepo) WithTx(tx *sql.Tx) store.ProductRepository {
	return m
}

// mockTransactor runs the function without a real transaction,
// mirroring commit/rollback purely through the returned error.
type mockTransactor struct {
	runs    int
	beginEr error
}

func (m *mockTransactor) Run(ctx context.Context, fn store.TxFn) error {
	m.runs++
	if m.beginEr != nil {
		return m.beginEr
	}
	return fn(ctx, nil)
}

// mockInvalidator records invalidation calls.
type mockInvalidator struct {
	tags  []string
	paths []string
	err   error
}

func (m *mockInvalidator) InvalidateTag(ctx context.Context, tag string) error {
	m.tags = append(m.tags, tag)
	return m.err
}

func (m *mockInvalidator) InvalidatePath(ctx context.Context, path string) error {
	m.paths = append(m.paths, path)
	return m.err
}
