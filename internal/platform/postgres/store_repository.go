package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/domain/search"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// storeColumns is the canonical column list for store rows, aliased to
// the "s" relation used by every query in this file.
const storeColumns = `s.id, s.user_id, s.name, s.description, s.slug, s.stripe_account_id, s.created_at`

// summaryOrder sorts the cached listings: active stores (those with a
// stripe account) first, ties broken by descending product count.
const summaryOrder = `(s.stripe_account_id IS NOT NULL) DESC, COUNT(p.id) DESC, s.id`

// PostgresStoreRepository implements the store.StoreRepository
// interface using a PostgreSQL database as the storage backend.
type PostgresStoreRepository struct {
	db     store.DBTX
	sqlDB  *sql.DB // non-nil only when db is a *sql.DB; used to open snapshot transactions
	logger *slog.Logger
}

// NewPostgresStoreRepository creates a new PostgreSQL implementation of
// the StoreRepository interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresStoreRepository(db store.DBTX, logger *slog.Logger) *PostgresStoreRepository {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	sqlDB, _ := db.(*sql.DB)

	return &PostgresStoreRepository{
		db:     db,
		sqlDB:  sqlDB,
		logger: logger.With(slog.String("component", "store_repository")),
	}
}

// Ensure PostgresStoreRepository implements store.StoreRepository
var _ store.StoreRepository = (*PostgresStoreRepository)(nil)

// WithTx implements store.StoreRepository.WithTx
func (r *PostgresStoreRepository) WithTx(tx *sql.Tx) store.StoreRepository {
	return &PostgresStoreRepository{
		db:     tx,
		logger: r.logger,
	}
}

// Create implements store.StoreRepository.Create
// It saves a new store to the database, handling domain validation.
// Returns store.ErrStoreNameExists if the name (or its derived slug)
// collides with an existing store.
func (r *PostgresStoreRepository) Create(ctx context.Context, s *domain.Store) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if err := s.Validate(); err != nil {
		log.Warn("store validation failed during create",
			slog.String("error", err.Error()),
			slog.String("store_id", s.ID.String()))
		return err
	}

	query := `
		INSERT INTO stores (id, user_id, name, description, slug, stripe_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.UserID,
		s.Name,
		s.Description,
		s.Slug,
		s.StripeAccountID,
		s.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate store name during create",
				slog.String("store_id", s.ID.String()),
				slog.String("name", s.Name))
			return fmt.Errorf("%w: %q", store.ErrStoreNameExists, s.Name)
		}

		log.Error("failed to create store",
			slog.String("error", err.Error()),
			slog.String("store_id", s.ID.String()))
		return MapError(err)
	}

	log.Info("store created successfully",
		slog.String("store_id", s.ID.String()),
		slog.String("user_id", s.UserID.String()))
	return nil
}

// GetByID implements store.StoreRepository.GetByID
// Returns store.ErrStoreNotFound if the store does not exist.
func (r *PostgresStoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	query := `SELECT ` + storeColumns + ` FROM stores s WHERE s.id = $1`

	s, err := scanStore(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("store not found", slog.String("store_id", id.String()))
			return nil, store.ErrStoreNotFound
		}
		log.Error("failed to get store by ID",
			slog.String("error", err.Error()),
			slog.String("store_id", id.String()))
		return nil, MapError(err)
	}

	return s, nil
}

// ExistsByName implements store.StoreRepository.ExistsByName
func (r *PostgresStoreRepository) ExistsByName(
	ctx context.Context,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	var (
		exists bool
		err    error
	)
	if excludeID == uuid.Nil {
		query := `SELECT EXISTS (SELECT 1 FROM stores WHERE name = $1)`
		err = r.db.QueryRowContext(ctx, query, name).Scan(&exists)
	} else {
		query := `SELECT EXISTS (SELECT 1 FROM stores WHERE name = $1 AND id <> $2)`
		err = r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists)
	}

	if err != nil {
		log.Error("failed to check store name existence",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return false, MapError(err)
	}

	return exists, nil
}

// UpdateDetails implements store.StoreRepository.UpdateDetails
// Returns store.ErrStoreNotFound if the store does not exist and
// store.ErrStoreNameExists if another store already holds the name.
func (r *PostgresStoreRepository) UpdateDetails(
	ctx context.Context,
	id uuid.UUID,
	name, description string,
) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	query := `UPDATE stores SET name = $1, description = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, name, description, id)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate store name during update",
				slog.String("store_id", id.String()),
				slog.String("name", name))
			return fmt.Errorf("%w: %q", store.ErrStoreNameExists, name)
		}

		log.Error("failed to update store",
			slog.String("error", err.Error()),
			slog.String("store_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		log.Debug("store not found during update", slog.String("store_id", id.String()))
		return store.ErrStoreNotFound
	}

	log.Info("store updated successfully", slog.String("store_id", id.String()))
	return nil
}

// Delete implements store.StoreRepository.Delete
// Returns store.ErrStoreNotFound if the store does not exist.
// Product cleanup is the caller's responsibility and must happen in
// the same transaction (see ProductRepository.DeleteByStore).
func (r *PostgresStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	result, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete store",
			slog.String("error", err.Error()),
			slog.String("store_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		log.Debug("store not found during delete", slog.String("store_id", id.String()))
		return store.ErrStoreNotFound
	}

	log.Info("store deleted successfully", slog.String("store_id", id.String()))
	return nil
}

// Search implements store.StoreRepository.Search
// It issues the paged data query and the total count query inside a
// single repeatable-read transaction so the page and the total reflect
// the same snapshot even under concurrent writes. When the repository
// is already bound to a transaction, both queries simply run on it.
func (r *PostgresStoreRepository) Search(
	ctx context.Context,
	plan *search.Plan,
) ([]store.StoreRow, int64, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if r.sqlDB == nil {
		return r.searchOn(ctx, r.db, plan)
	}

	tx, err := r.sqlDB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		log.Error("failed to begin search transaction", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() {
		// Rollback after a successful commit is a no-op error; ignore it.
		_ = tx.Rollback()
	}()

	rows, total, err := r.searchOn(ctx, tx, plan)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit search transaction", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	return rows, total, nil
}

// searchOn runs the data and count queries of a plan on the given
// query target within one consistency scope.
func (r *PostgresStoreRepository) searchOn(
	ctx context.Context,
	db store.DBTX,
	plan *search.Plan,
) ([]store.StoreRow, int64, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	where, args := buildSearchPredicates(plan)

	dataQuery := fmt.Sprintf(`
		SELECT %s, COUNT(p.id) AS product_count
		FROM stores s
		LEFT JOIN products p ON p.store_id = s.id
		%s
		GROUP BY s.id
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		storeColumns, where, orderExpr(plan.Order), len(args)+1, len(args)+2)

	dataArgs := append(append([]any{}, args...), plan.Limit, plan.Offset)

	rows, err := db.QueryContext(ctx, dataQuery, dataArgs...)
	if err != nil {
		log.Error("store search data query failed", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	results := []store.StoreRow{}
	for rows.Next() {
		var (
			row         store.StoreRow
			description sql.NullString
			stripeAcct  sql.NullString
		)
		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Name,
			&description,
			&row.Slug,
			&stripeAcct,
			&row.CreatedAt,
			&row.ProductCount,
		); err != nil {
			log.Error("failed to scan store row", slog.String("error", err.Error()))
			return nil, 0, MapError(err)
		}
		row.Description = description.String
		if stripeAcct.Valid {
			row.StripeAccountID = &stripeAcct.String
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	// Same predicates, no limit/offset/order: the count covers every
	// qualifying store, not just the current page.
	countQuery := `SELECT COUNT(*) FROM stores s ` + where

	var total int64
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("store search count query failed", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	return results, total, nil
}

// Featured implements store.StoreRepository.Featured
func (r *PostgresStoreRepository) Featured(
	ctx context.Context,
	limit int,
) ([]store.StoreSummary, error) {
	query := `
		SELECT s.id, s.name, s.description, s.stripe_account_id
		FROM stores s
		LEFT JOIN products p ON p.store_id = s.id
		GROUP BY s.id
		ORDER BY ` + summaryOrder + `
		LIMIT $1`

	return r.querySummaries(ctx, query, limit)
}

// ByOwner implements store.StoreRepository.ByOwner
func (r *PostgresStoreRepository) ByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]store.StoreSummary, error) {
	query := `
		SELECT s.id, s.name, s.description, s.stripe_account_id
		FROM stores s
		LEFT JOIN products p ON p.store_id = s.id
		WHERE s.user_id = $1
		GROUP BY s.id
		ORDER BY ` + summaryOrder

	return r.querySummaries(ctx, query, ownerID)
}

// querySummaries runs a summary-shaped query and scans its rows.
func (r *PostgresStoreRepository) querySummaries(
	ctx context.Context,
	query string,
	args ...any,
) ([]store.StoreSummary, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("store summary query failed", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []store.StoreSummary{}
	for rows.Next() {
		var (
			summary     store.StoreSummary
			description sql.NullString
			stripeAcct  sql.NullString
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &description, &stripeAcct); err != nil {
			log.Error("failed to scan store summary", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		summary.Description = description.String
		if stripeAcct.Valid {
			summary.StripeAccountID = &stripeAcct.String
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return summaries, nil
}

// scanStore scans a single store row in storeColumns order.
func scanStore(row *sql.Row) (*domain.Store, error) {
	var (
		s           domain.Store
		description sql.NullString
		stripeAcct  sql.NullString
	)

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&description,
		&s.Slug,
		&stripeAcct,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Description = description.String
	if stripeAcct.Valid {
		s.StripeAccountID = &stripeAcct.String
	}

	return &s, nil
}

// buildSearchPredicates converts a plan's typed predicate set into a
// WHERE clause and its bound arguments. Every fragment here is a
// static string chosen by enum value; plan data only ever lands in
// args.
func buildSearchPredicates(plan *search.Plan) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if plan.Status != nil {
		if *plan.Status == search.StatusActive {
			conditions = append(conditions, "s.stripe_account_id IS NOT NULL")
		} else {
			conditions = append(conditions, "s.stripe_account_id IS NULL")
		}
	}

	if plan.OwnerID != uuid.Nil {
		args = append(args, plan.OwnerID)
		conditions = append(conditions, fmt.Sprintf("s.user_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderExpr maps a validated order onto its SQL expression through an
// exhaustive switch over the closed column set. A secondary sort on
// s.id keeps pagination deterministic when the primary key ties.
func orderExpr(order search.Order) string {
	var expr string
	switch order.Column {
	case search.ColumnName:
		expr = "s.name"
	case search.ColumnDescription:
		expr = "s.description"
	case search.ColumnSlug:
		expr = "s.slug"
	case search.ColumnStripeAccount:
		expr = "(s.stripe_account_id IS NOT NULL)"
	case search.ColumnProductCount:
		expr = "COUNT(p.id)"
	default:
		expr = "s.created_at"
	}

	dir := "DESC"
	if order.Direction == search.Ascending {
		dir = "ASC"
	}

	return expr + " " + dir + ", s.id"
}
