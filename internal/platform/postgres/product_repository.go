package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// PostgresProductRepository implements the store.ProductRepository
// interface using a PostgreSQL database as the storage backend.
type PostgresProductRepository struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL implementation
// of the ProductRepository interface. If logger is nil, a default
// logger will be used.
func NewPostgresProductRepository(db store.DBTX, logger *slog.Logger) *PostgresProductRepository {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductRepository{
		db:     db,
		logger: logger.With(slog.String("component", "product_repository")),
	}
}

// Ensure PostgresProductRepository implements store.ProductRepository
var _ store.ProductRepository = (*PostgresProductRepository)(nil)

// WithTx implements store.ProductRepository.WithTx
func (r *PostgresProductRepository) WithTx(tx *sql.Tx) store.ProductRepository {
	return &PostgresProductRepository{
		db:     tx,
		logger: r.logger,
	}
}

// Create implements store.ProductRepository.Create
// Returns store.ErrInvalidEntity if the owning store does not exist.
func (r *PostgresProductRepository) Create(ctx context.Context, p *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if err := p.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("product_id", p.ID.String()))
		return err
	}

	query := `INSERT INTO products (id, store_id, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.StoreID, p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during product creation",
				slog.String("product_id", p.ID.String()),
				slog.String("store_id", p.StoreID.String()))
			return fmt.Errorf("%w: store with ID %s not found",
				store.ErrInvalidEntity, p.StoreID)
		}

		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", p.ID.String()))
		return MapError(err)
	}

	log.Info("product created successfully",
		slog.String("product_id", p.ID.String()),
		slog.String("store_id", p.StoreID.String()))
	return nil
}

// CountByStore implements store.ProductRepository.CountByStore
func (r *PostgresProductRepository) CountByStore(
	ctx context.Context,
	storeID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	var count int64
	query := `SELECT COUNT(*) FROM products WHERE store_id = $1`

	if err := r.db.QueryRowContext(ctx, query, storeID).Scan(&count); err != nil {
		log.Error("failed to count products",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// DeleteByStore implements store.ProductRepository.DeleteByStore
func (r *PostgresProductRepository) DeleteByStore(
	ctx context.Context,
	storeID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE store_id = $1`, storeID)
	if err != nil {
		log.Error("failed to delete products for store",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return 0, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	log.Info("products deleted for store",
		slog.String("store_id", storeID.String()),
		slog.Int64("count", rows))
	return rows, nil
}
