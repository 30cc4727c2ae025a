package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store-rating/internal/data/entity"
	"store-rating/internal/dto/request"
	"store-rating/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	// FindAll applies the visibility filter (ownerID non-nil restricts to
	// owned stores) before search and sort, then returns a deterministic
	// total order.
	FindAll(ctx context.Context, query *request.StoreQuery, ownerID *uuid.UUID) ([]*entity.Store, error)
	AssignOwner(ctx context.Context, storeID, ownerID uuid.UUID) error
	// Delete removes the store and cascades to its ratings in one
	// transaction; the aggregates disappear with the store row.
	Delete(ctx context.Context, id uuid.UUID) error
	// OwnerSummary aggregates over every individual rating across the
	// owner's stores, so stores with many ratings weigh accordingly.
	OwnerSummary(ctx context.Context, ownerID uuid.UUID) (*entity.StoreAggregate, int, error)
}

type storeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStoreRepository(db database.PgxIface, log *zap.Logger) StoreRepository {
	return &storeRepository{
		db:  db,
		log: log.With(zap.String("repository", "store")),
	}
}

const storeColumns = `id, name, email, address, owner_id, average_rating, total_ratings, created_at, updated_at`

// escapeLike makes a search term match literally inside ILIKE patterns.
// Postgres treats backslash as the default escape character.
var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace

func scanStore(row pgx.Row) (*entity.Store, error) {
	var store entity.Store
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Email,
		&store.Address,
		&store.OwnerID,
		&store.AverageRating,
		&store.TotalRatings,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	query := `
		INSERT INTO stores (id, name, email, address, owner_id, average_rating,
		                    total_ratings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		store.ID,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
		store.CreatedAt,
		store.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create store",
			zap.Error(err),
			zap.String("name", store.Name),
		)
		return fmt.Errorf("create store %s: %w", store.Name, err)
	}

	return nil
}

func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

	store, err := scanStore(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find store by ID",
			zap.Error(err),
			zap.String("store_id", id.String()),
		)
		return nil, fmt.Errorf("find store by ID %s: %w", id.String(), err)
	}

	return store, nil
}

// sortColumns whitelists ORDER BY targets. Query validation happens upstream
// in the request DTO; unknown keys here fall back to name.
var sortColumns = map[string]string{
	request.SortByName:          "name",
	request.SortByAverageRating: "average_rating",
}

func (r *storeRepository) FindAll(ctx context.Context, query *request.StoreQuery, ownerID *uuid.UUID) ([]*entity.Store, error) {
	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if query.SortOrder == request.SortDesc {
		direction = "DESC"
	}

	// Tie-break on name then id so equal sort keys still yield one total
	// order; repeated identical queries must return identical sequences.
	sql := `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE ($1::uuid IS NULL OR owner_id = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR address ILIKE '%' || $2 || '%')
		ORDER BY ` + column + ` ` + direction + `, name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, sql, ownerID, escapeLike(query.Search))
	if err != nil {
		r.log.Error("Failed to list stores",
			zap.Error(err),
			zap.String("search", query.Search),
			zap.String("sort_by", query.SortBy),
			zap.String("sort_order", query.SortOrder),
		)
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []*entity.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			r.log.Error("Failed to scan store row", zap.Error(err))
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores rows: %w", err)
	}

	return stores, nil
}

func (r *storeRepository) AssignOwner(ctx context.Context, storeID, ownerID uuid.UUID) error {
	query := `
		UPDATE stores
		SET owner_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, storeID, ownerID)
	if err != nil {
		r.log.Error("Failed to assign store owner",
			zap.Error(err),
			zap.String("store_id", storeID.String()),
			zap.String("owner_id", ownerID.String()),
		)
		return fmt.Errorf("assign owner for store %s: %w", storeID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("store %s not found", storeID.String())
	}

	return nil
}

func (r *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin store delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE store_id = $1`, id); err != nil {
		r.log.Error("Failed to cascade ratings for store",
			zap.Error(err),
			zap.String("store_id", id.String()),
		)
		return fmt.Errorf("delete ratings for store %s: %w", id.String(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete store",
			zap.Error(err),
			zap.String("store_id", id.String()),
		)
		return fmt.Errorf("delete store %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("store %s not found", id.String())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit store delete: %w", err)
	}

	r.log.Info("Store deleted with ratings cascade", zap.String("store_id", id.String()))
	return nil
}

func (r *storeRepository) OwnerSummary(ctx context.Context, ownerID uuid.UUID) (*entity.StoreAggregate, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM stores WHERE owner_id = $1) AS store_count,
			COUNT(r.id) AS rating_count,
			COALESCE(AVG(r.value), 0) AS avg_rating
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE s.owner_id = $1
	`

	var storeCount int
	agg := &entity.StoreAggregate{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&storeCount,
		&agg.TotalRatings,
		&agg.AverageRating,
	)
	if err != nil {
		r.log.Error("Failed to build owner summary",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, 0, fmt.Errorf("owner summary for %s: %w", ownerID.String(), err)
	}

	return agg, storeCount, nil
}
