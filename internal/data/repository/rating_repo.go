package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type RatingRepository interface {
	// Upsert creates the rating on first submission or overwrites value and
	// updated_at on resubmission, then recomputes the store's aggregates in
	// the same transaction. Returns the stored row, whether it was an
	// insert, and the fresh aggregates.
	Upsert(ctx context.Context, userID, storeID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error)
	FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error)
	FindByUserWithStore(ctx context.Context, userID uuid.UUID) ([]*entity.RatingWithStore, error)
}

type ratingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRatingRepository(db database.PgxIface, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

// IsTransient reports whether err is a retryable transaction failure
// (serialization or deadlock). The service layer retries the unit of work
// once before surfacing Unavailable.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 40: transaction rollback.
		return strings.HasPrefix(pgErr.Code, "40")
	}
	return false
}

func (r *ratingRepository) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, nil, fmt.Errorf("begin rating upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	// The unique (user_id, store_id) constraint serializes concurrent
	// submissions for the same pair: the second writer lands on the
	// conflict arm instead of inserting a duplicate.
	upsertSQL := `
		INSERT INTO ratings (id, user_id, store_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, store_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	rating := &entity.Rating{
		UserID:  userID,
		StoreID: storeID,
		Value:   value,
	}

	var inserted bool
	err = tx.QueryRow(ctx, upsertSQL, uuid.New(), userID, storeID, value, now).Scan(
		&rating.ID,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("store_id", storeID.String()),
		)
		return nil, false, nil, fmt.Errorf("upsert rating for store %s by user %s: %w",
			storeID.String(), userID.String(), err)
	}

	agg, err := recomputeAggregates(ctx, tx, storeID)
	if err != nil {
		r.log.Error("Failed to recompute store aggregates",
			zap.Error(err),
			zap.String("store_id", storeID.String()),
		)
		return nil, false, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, nil, fmt.Errorf("commit rating upsert: %w", err)
	}

	return rating, inserted, agg, nil
}

// recomputeAggregates rederives count and mean from the full rating set of
// one store inside the caller's transaction. Full recompute rather than an
// incremental sum, so repeated updates cannot drift.
func recomputeAggregates(ctx context.Context, tx pgx.Tx, storeID uuid.UUID) (*entity.StoreAggregate, error) {
	query := `
		UPDATE stores s
		SET total_ratings = agg.rating_count,
		    average_rating = agg.avg_rating,
		    updated_at = NOW()
		FROM (
			SELECT COUNT(*) AS rating_count,
			       COALESCE(AVG(value), 0) AS avg_rating
			FROM ratings
			WHERE store_id = $1
		) agg
		WHERE s.id = $1
		RETURNING s.total_ratings, s.average_rating
	`

	agg := &entity.StoreAggregate{StoreID: storeID}
	err := tx.QueryRow(ctx, query, storeID).Scan(&agg.TotalRatings, &agg.AverageRating)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("recompute aggregates: store %s not found", storeID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("recompute aggregates for store %s: %w", storeID.String(), err)
	}

	return agg, nil
}

func (r *ratingRepository) FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	query := `
		SELECT id, user_id, store_id, value, created_at, updated_at
		FROM ratings
		WHERE user_id = $1 AND store_id = $2
	`

	var rating entity.Rating
	err := r.db.QueryRow(ctx, query, userID, storeID).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("store_id", storeID.String()),
		)
		return nil, fmt.Errorf("find rating by user %s and store %s: %w",
			userID.String(), storeID.String(), err)
	}

	return &rating, nil
}

func (r *ratingRepository) FindByUserWithStore(ctx context.Context, userID uuid.UUID) ([]*entity.RatingWithStore, error) {
	// Ordered by created_at then id: stable across repeated reads with no
	// intervening writes.
	query := `
		SELECT r.id, r.user_id, r.store_id, r.value, r.created_at, r.updated_at,
		       s.name AS store_name
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list ratings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find ratings by user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var ratings []*entity.RatingWithStore
	for rows.Next() {
		var rating entity.RatingWithStore
		err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.StoreID,
			&rating.Value,
			&rating.CreatedAt,
			&rating.UpdatedAt,
			&rating.StoreName,
		)
		if err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, &rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings rows: %w", err)
	}

	return ratings, nil
}
