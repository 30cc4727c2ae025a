package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"store-rating/internal/apperr"
	"store-rating/internal/data/entity"
	"store-rating/internal/dto/request"
	"store-rating/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func newRatingService(repo *mockRatingRepo, store *mockStoreRepo) RatingService {
	return NewRatingService(
		newTestRepo(nil, nil, store, repo),
		metrics.NewCollector(),
		zap.NewNop(),
	)
}

func existingStore(id uuid.UUID) *mockStoreRepo {
	return &mockStoreRepo{
		findByIDFn: func(ctx context.Context, storeID uuid.UUID) (*entity.Store, error) {
			if storeID == id {
				return &entity.Store{
					BaseNoDelete: entity.BaseNoDelete{ID: id},
					Name:         "Kopi Kenangan",
				}, nil
			}
			return nil, nil
		},
	}
}

func TestUpsertRating_Create(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()

	var gotUser, gotStore uuid.UUID
	var gotValue int
	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			gotUser, gotStore, gotValue = uID, sID, value
			return &entity.Rating{
					BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
					UserID:       uID,
					StoreID:      sID,
					Value:        value,
				}, true, &entity.StoreAggregate{
					StoreID:       sID,
					TotalRatings:  1,
					AverageRating: 4.0,
				}, nil
		},
	}

	svc := newRatingService(ratingRepo, existingStore(storeID))

	resp, err := svc.UpsertRating(context.Background(), userID, entity.RoleUser,
		&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resp.Created {
		t.Error("expected Created=true on first submission")
	}
	if resp.TotalRatings != 1 || resp.AverageRating != 4.0 {
		t.Errorf("aggregates = (%d, %v), want (1, 4.0)", resp.TotalRatings, resp.AverageRating)
	}
	if resp.Rating.StoreName != "Kopi Kenangan" {
		t.Errorf("store name = %q, want %q", resp.Rating.StoreName, "Kopi Kenangan")
	}
	if gotUser != userID || gotStore != storeID || gotValue != 4 {
		t.Errorf("upsert called with (%v, %v, %d), want (%v, %v, 4)",
			gotUser, gotStore, gotValue, userID, storeID)
	}
}

func TestUpsertRating_Resubmit(t *testing.T) {
	storeID := uuid.New()

	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			// Second submission by the same user overwrites in place.
			return &entity.Rating{
					BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
					UserID:       uID,
					StoreID:      sID,
					Value:        value,
				}, false, &entity.StoreAggregate{
					StoreID:       sID,
					TotalRatings:  2,
					AverageRating: 3.5,
				}, nil
		},
	}

	svc := newRatingService(ratingRepo, existingStore(storeID))

	resp, err := svc.UpsertRating(context.Background(), uuid.New(), entity.RoleUser,
		&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Created {
		t.Error("expected Created=false on resubmission")
	}
	if resp.TotalRatings != 2 || resp.AverageRating != 3.5 {
		t.Errorf("aggregates = (%d, %v), want (2, 3.5)", resp.TotalRatings, resp.AverageRating)
	}
}

func TestUpsertRating_RoleDenied(t *testing.T) {
	storeID := uuid.New()
	upsertCalled := false
	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			upsertCalled = true
			return nil, false, nil, nil
		},
	}
	svc := newRatingService(ratingRepo, existingStore(storeID))

	for _, role := range []entity.UserRole{entity.RoleAdmin, entity.RoleStoreOwner} {
		_, err := svc.UpsertRating(context.Background(), uuid.New(), role,
			&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: 3})
		if !apperr.IsForbidden(err) {
			t.Errorf("role %s: got %v, want ForbiddenError", role, err)
		}
	}
	if upsertCalled {
		t.Error("upsert must not run for denied roles")
	}
}

func TestUpsertRating_ValueOutOfRange(t *testing.T) {
	storeID := uuid.New()
	upsertCalled := false
	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			upsertCalled = true
			return nil, false, nil, nil
		},
	}
	svc := newRatingService(ratingRepo, existingStore(storeID))

	for _, value := range []int{0, 6, -1} {
		_, err := svc.UpsertRating(context.Background(), uuid.New(), entity.RoleUser,
			&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: value})
		if !apperr.IsValidation(err) {
			t.Errorf("value %d: got %v, want ValidationError", value, err)
		}
	}
	if upsertCalled {
		t.Error("upsert must not run for out-of-range values")
	}
}

func TestUpsertRating_StoreNotFound(t *testing.T) {
	svc := newRatingService(&mockRatingRepo{}, &mockStoreRepo{})

	_, err := svc.UpsertRating(context.Background(), uuid.New(), entity.RoleUser,
		&request.UpsertRatingRequest{StoreID: uuid.New().String(), Rating: 3})
	if !apperr.IsNotFound(err) {
		t.Errorf("got %v, want NotFoundError", err)
	}
}

func TestUpsertRating_TransientRetrySucceeds(t *testing.T) {
	storeID := uuid.New()
	calls := 0
	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			calls++
			if calls == 1 {
				return nil, false, nil, &pgconn.PgError{Code: "40001"}
			}
			return &entity.Rating{
					BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
					UserID:       uID,
					StoreID:      sID,
					Value:        value,
				}, true, &entity.StoreAggregate{
					StoreID:       sID,
					TotalRatings:  1,
					AverageRating: 2.0,
				}, nil
		},
	}

	svc := newRatingService(ratingRepo, existingStore(storeID))

	resp, err := svc.UpsertRating(context.Background(), uuid.New(), entity.RoleUser,
		&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("upsert calls = %d, want 2", calls)
	}
	if !resp.Created {
		t.Error("expected Created=true after successful retry")
	}
}

func TestUpsertRating_TransientRetryExhausted(t *testing.T) {
	storeID := uuid.New()
	calls := 0
	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			calls++
			return nil, false, nil, &pgconn.PgError{Code: "40P01"}
		},
	}

	svc := newRatingService(ratingRepo, existingStore(storeID))

	_, err := svc.UpsertRating(context.Background(), uuid.New(), entity.RoleUser,
		&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: 2})
	if !apperr.IsUnavailable(err) {
		t.Errorf("got %v, want UnavailableError", err)
	}
	if calls != 2 {
		t.Errorf("upsert calls = %d, want exactly one retry", calls)
	}
}

func TestUpsertRating_PermanentErrorNotRetried(t *testing.T) {
	storeID := uuid.New()
	calls := 0
	ratingRepo := &mockRatingRepo{
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			calls++
			return nil, false, nil, errors.New("connection refused")
		},
	}

	svc := newRatingService(ratingRepo, existingStore(storeID))

	_, err := svc.UpsertRating(context.Background(), uuid.New(), entity.RoleUser,
		&request.UpsertRatingRequest{StoreID: storeID.String(), Rating: 2})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.IsUnavailable(err) {
		t.Error("permanent failures should not map to UnavailableError")
	}
	if calls != 1 {
		t.Errorf("upsert calls = %d, want 1", calls)
	}
}

func TestGetMyRating_NotFound(t *testing.T) {
	upsertCalled := false
	ratingRepo := &mockRatingRepo{
		findByUserAndStoreFn: func(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
			return nil, nil
		},
		upsertFn: func(ctx context.Context, uID, sID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
			upsertCalled = true
			return nil, false, nil, nil
		},
	}

	svc := newRatingService(ratingRepo, &mockStoreRepo{})

	_, err := svc.GetMyRating(context.Background(), uuid.New(), entity.RoleUser, uuid.New())
	if !apperr.IsNotFound(err) {
		t.Errorf("got %v, want NotFoundError", err)
	}
	if upsertCalled {
		t.Error("reading a missing rating must not create one")
	}
}

func TestGetMyRating_Found(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	ratingRepo := &mockRatingRepo{
		findByUserAndStoreFn: func(ctx context.Context, uID, sID uuid.UUID) (*entity.Rating, error) {
			return &entity.Rating{
				BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
				UserID:       uID,
				StoreID:      sID,
				Value:        5,
			}, nil
		},
	}

	svc := newRatingService(ratingRepo, &mockStoreRepo{})

	resp, err := svc.GetMyRating(context.Background(), userID, entity.RoleUser, storeID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Rating != 5 {
		t.Errorf("rating = %d, want 5", resp.Rating)
	}
	if resp.UserID != userID.String() || resp.StoreID != storeID.String() {
		t.Error("response carries wrong identifiers")
	}
}

func TestListMyRatings(t *testing.T) {
	userID := uuid.New()
	ratingRepo := &mockRatingRepo{
		findByUserWithStoreFn: func(ctx context.Context, uID uuid.UUID) ([]*entity.RatingWithStore, error) {
			if uID != userID {
				return nil, fmt.Errorf("unexpected user %v", uID)
			}
			return []*entity.RatingWithStore{
				{Rating: entity.Rating{UserID: uID, Value: 4}, StoreName: "Toko A"},
				{Rating: entity.Rating{UserID: uID, Value: 2}, StoreName: "Toko B"},
			}, nil
		},
	}

	svc := newRatingService(ratingRepo, &mockStoreRepo{})

	resp, err := svc.ListMyRatings(context.Background(), userID, entity.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len = %d, want 2", len(resp))
	}
	if resp[0].StoreName != "Toko A" || resp[1].StoreName != "Toko B" {
		t.Error("store names not carried through")
	}
}
