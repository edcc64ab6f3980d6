package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeServiceFixture struct {
	storeRepo   *mockStoreRepo
	productRepo *mockProductRepo
	tx          *mockTransactor
	invalidator *mockInvalidator
	svc         StoreService
}

func newStoreServiceFixture(t *testing.T) *storeServiceFixture {
	t.Helper()

	f := &storeServiceFixture{
		storeRepo:   &mockStoreRepo{},
		productRepo: &mockProductRepo{},
		tx:          &mockTransactor{},
		invalidator: &mockInvalidator{},
	}

	svc, err := NewStoreService(f.storeRepo, f.productRepo, f.tx, f.invalidator, slog.Default())
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewStoreService(t *testing.T) {
	f := newStoreServiceFixture(t)

	_, err := NewStoreService(nil, f.productRepo, f.tx, f.invalidator, slog.Default())
	assert.Error(t, err)

	_, err = NewStoreService(f.storeRepo, nil, f.tx, f.invalidator, slog.Default())
	assert.Error(t, err)

	_, err = NewStoreService(f.storeRepo, f.productRepo, nil, f.invalidator, slog.Default())
	assert.Error(t, err)

	_, err = NewStoreService(f.storeRepo, f.productRepo, f.tx, nil, slog.Default())
	assert.Error(t, err)

	_, err = NewStoreService(f.storeRepo, f.productRepo, f.tx, f.invalidator, nil)
	assert.Error(t, err)
}

func TestAddStore(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("success creates and invalidates user-stores", func(t *testing.T) {
		f := newStoreServiceFixture(t)

		var created *domain.Store
		f.storeRepo.createFn = func(ctx context.Context, s *domain.Store) error {
			created = s
			return nil
		}

		err := f.svc.AddStore(ctx, ownerID, "Acme Outfitters", "gadgets")
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, ownerID, created.UserID)
		assert.Equal(t, "acme-outfitters", created.Slug)

		assert.Equal(t, []string{TagUserStores}, f.invalidator.tags)
		assert.Empty(t, f.invalidator.paths)
	})

	t.Run("name taken performs no insert", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.existsByNameFn = func(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
			return true, nil
		}

		err := f.svc.AddStore(ctx, ownerID, "Acme", "")
		assert.ErrorIs(t, err, ErrStoreNameTaken)
		assert.Zero(t, f.storeRepo.createCalls)
		assert.Empty(t, f.invalidator.tags, "a failed mutation must not invalidate caches")
	})

	t.Run("unique index backstop maps to name taken", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.createFn = func(ctx context.Context, s *domain.Store) error {
			return store.ErrStoreNameExists
		}

		err := f.svc.AddStore(ctx, ownerID, "Acme", "")
		assert.ErrorIs(t, err, ErrStoreNameTaken)
	})

	t.Run("invalid store data", func(t *testing.T) {
		f := newStoreServiceFixture(t)

		err := f.svc.AddStore(ctx, ownerID, strings.Repeat("a", domain.MaxStoreNameLength+1), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStoreNameTooLong)
		assert.Zero(t, f.storeRepo.createCalls)
	})

	t.Run("uniqueness check failure surfaces wrapped", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.existsByNameFn = func(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
			return false, errors.New("connection reset")
		}

		err := f.svc.AddStore(ctx, ownerID, "Acme", "")
		require.Error(t, err)

		var svcErr *StoreServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestUpdateStore(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("success invalidates tag and detail path", func(t *testing.T) {
		f := newStoreServiceFixture(t)

		err := f.svc.UpdateStore(ctx, storeID, "New Name", "new description")
		require.NoError(t, err)

		assert.Equal(t, storeID, f.storeRepo.lastExcludeID,
			"uniqueness check must exclude the store being updated")
		assert.Equal(t, []string{TagUserStores}, f.invalidator.tags)
		assert.Equal(t, []string{StoreDetailPath(storeID)}, f.invalidator.paths)
	})

	t.Run("rename onto another store's name conflicts", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.existsByNameFn = func(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
			// Another store holds the name; the exclusion did not help.
			return true, nil
		}

		err := f.svc.UpdateStore(ctx, storeID, "Taken", "")
		assert.ErrorIs(t, err, ErrStoreNameTaken)
		assert.Empty(t, f.invalidator.tags)
		assert.Empty(t, f.invalidator.paths)
	})

	t.Run("no-op rename succeeds via self-exclusion", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.existsByNameFn = func(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
			// The only holder of the name is excluded: it is this store.
			return false, nil
		}

		err := f.svc.UpdateStore(ctx, storeID, "Same Name", "same")
		assert.NoError(t, err)
	})

	t.Run("missing store maps to not found", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.updateFn = func(ctx context.Context, id uuid.UUID, name, description string) error {
			return store.ErrStoreNotFound
		}

		err := f.svc.UpdateStore(ctx, storeID, "Name", "")
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestDeleteStore(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	existing := func(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
		return &domain.Store{ID: id, UserID: uuid.New(), Name: "Acme", Slug: "acme"}, nil
	}

	t.Run("success cascades in one transaction and redirects", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.getByIDFn = existing

		var productStoreID uuid.UUID
		f.productRepo.deleteByStoreFn = func(ctx context.Context, sid uuid.UUID) (int64, error) {
			productStoreID = sid
			return 5, nil
		}

		outcome, err := f.svc.DeleteStore(ctx, storeID)
		require.NoError(t, err)

		require.NotNil(t, outcome)
		assert.Equal(t, StoresListingPath, outcome.RedirectTo)

		assert.Equal(t, 1, f.tx.runs)
		assert.Equal(t, 1, f.productRepo.deleteByStoreCalls)
		assert.Equal(t, 1, f.storeRepo.deleteCalls)
		assert.Equal(t, storeID, productStoreID)

		assert.Equal(t, []string{StoresListingPath}, f.invalidator.paths)
	})

	t.Run("zero products still succeeds", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.getByIDFn = existing

		outcome, err := f.svc.DeleteStore(ctx, storeID)
		require.NoError(t, err)
		assert.NotNil(t, outcome)
	})

	t.Run("absent store maps to not found", func(t *testing.T) {
		f := newStoreServiceFixture(t)

		outcome, err := f.svc.DeleteStore(ctx, storeID)
		assert.ErrorIs(t, err, ErrStoreNotFound)
		assert.Nil(t, outcome)
		assert.Zero(t, f.tx.runs, "no transaction for a missing store")
	})

	t.Run("store delete failure rolls back the cascade", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.getByIDFn = existing
		f.storeRepo.deleteFn = func(ctx context.Context, id uuid.UUID) error {
			return errors.New("deadlock detected")
		}

		outcome, err := f.svc.DeleteStore(ctx, storeID)
		require.Error(t, err)
		assert.Nil(t, outcome)
		assert.Empty(t, f.invalidator.paths, "a failed delete must not invalidate the listing")
	})

	t.Run("product delete failure aborts before the store row", func(t *testing.T) {
		f := newStoreServiceFixture(t)
		f.storeRepo.getByIDFn = existing
		f.productRepo.deleteByStoreFn = func(ctx context.Context, sid uuid.UUID) (int64, error) {
			return 0, errors.New("lock timeout")
		}

		outcome, err := f.svc.DeleteStore(ctx, storeID)
		require.Error(t, err)
		assert.Nil(t, outcome)
		assert.Zero(t, f.storeRepo.deleteCalls)
	})
}

// TestMutationInvalidatesCachedReads wires the real tag cache between
// the two services and checks a write forces the cached owner listing
// to recompute.
func TestMutationInvalidatesCachedReads(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	repo := &mockStoreRepo{
		byOwnerFn: func(ctx context.Context, id uuid.UUID) ([]store.StoreSummary, error) {
			return summaries("Acme"), nil
		},
	}

	tagCache := cache.NewTagCache(cache.NewMemoryStore(), nil)

	catalog, err := NewCatalogService(repo, &mockProductRepo{}, tagCache,
		CatalogConfig{FeaturedTTL: time.Minute, UserStoresTTL: time.Hour}, slog.Default())
	require.NoError(t, err)

	mutations, err := NewStoreService(repo, &mockProductRepo{}, &mockTransactor{}, tagCache, slog.Default())
	require.NoError(t, err)

	_, err = catalog.GetUserStores(ctx, ownerID)
	require.NoError(t, err)
	_, err = catalog.GetUserStores(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.byOwnerCalls, "second read must come from cache")

	require.NoError(t, mutations.AddStore(ctx, ownerID, "Another Store", ""))

	_, err = catalog.GetUserStores(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.byOwnerCalls, "write must force the cached listing to recompute")
}
