package usecase

import (
	"context"
	"fmt"
	"time"

	"store-rating/internal/apperr"
	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"
	"store-rating/internal/policy"
	"store-rating/pkg/metrics"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingService interface {
	// UpsertRating creates or overwrites the principal's rating for a store
	// and returns it together with the aggregates recomputed in the same
	// transaction. Resubmission is never a conflict.
	UpsertRating(ctx context.Context, principalID uuid.UUID, role entity.UserRole, req *request.UpsertRatingRequest) (*response.UpsertRatingResponse, error)
	ListMyRatings(ctx context.Context, principalID uuid.UUID, role entity.UserRole) ([]response.RatingResponse, error)
	// GetMyRating returns the principal's rating for one store, or NotFound.
	// Read-only: it never creates a row.
	GetMyRating(ctx context.Context, principalID uuid.UUID, role entity.UserRole, storeID uuid.UUID) (*response.RatingResponse, error)
}

type ratingService struct {
	repo      *repository.Repository
	collector *metrics.Collector
	log       *zap.Logger
}

func NewRatingService(repo *repository.Repository, collector *metrics.Collector, log *zap.Logger) RatingService {
	return &ratingService{
		repo:      repo,
		collector: collector,
		log:       log.With(zap.String("service", "rating")),
	}
}

func (s *ratingService) UpsertRating(ctx context.Context, principalID uuid.UUID, role entity.UserRole, req *request.UpsertRatingRequest) (*response.UpsertRatingResponse, error) {
	if d := policy.Evaluate(role, policy.OpWrite, policy.ResourceRating); !d.Allow {
		return nil, apperr.NewForbidden("only users may submit ratings")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Rating validation failed", zap.Any("errors", errs))
		return nil, apperr.NewValidation("validation failed", errs)
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apperr.NewValidation("invalid store", map[string]string{"store_id": "Must be a valid UUID"})
	}

	store, err := s.repo.Store.FindByID(ctx, storeID)
	if err != nil {
		s.log.Error("Failed to find store", zap.Error(err), zap.String("store_id", req.StoreID))
		return nil, fmt.Errorf("find store: %w", err)
	}
	if store == nil {
		return nil, apperr.NewNotFound("store", req.StoreID)
	}

	rating, created, agg, err := s.upsertWithRetry(ctx, principalID, storeID, req.Rating)
	if err != nil {
		return nil, err
	}

	s.collector.RecordRatingUpsert(created)

	s.log.Info("Rating upserted",
		zap.String("user_id", principalID.String()),
		zap.String("store_id", storeID.String()),
		zap.Int("value", req.Rating),
		zap.Bool("created", created),
		zap.Int64("total_ratings", agg.TotalRatings),
		zap.Float64("average_rating", agg.AverageRating),
	)

	return &response.UpsertRatingResponse{
		Rating:        response.RatingToResponse(rating, store.Name),
		Created:       created,
		AverageRating: agg.AverageRating,
		TotalRatings:  agg.TotalRatings,
	}, nil
}

// upsertWithRetry runs the upsert/recompute unit of work, retrying once on a
// transient transaction abort before surfacing Unavailable. A failed
// recompute rolls the rating write back with it.
func (s *ratingService) upsertWithRetry(ctx context.Context, userID, storeID uuid.UUID, value int) (*entity.Rating, bool, *entity.StoreAggregate, error) {
	rating, created, agg, err := s.repo.Rating.Upsert(ctx, userID, storeID, value, time.Now())
	if err == nil {
		return rating, created, agg, nil
	}
	if !repository.IsTransient(err) {
		return nil, false, nil, fmt.Errorf("upsert rating: %w", err)
	}

	s.log.Warn("Retrying rating upsert after transient failure",
		zap.Error(err),
		zap.String("store_id", storeID.String()),
	)
	s.collector.RecordUpsertRetry()

	rating, created, agg, err = s.repo.Rating.Upsert(ctx, userID, storeID, value, time.Now())
	if err != nil {
		s.log.Error("Rating upsert failed after retry",
			zap.Error(err),
			zap.String("store_id", storeID.String()),
		)
		return nil, false, nil, apperr.NewUnavailable(err)
	}

	return rating, created, agg, nil
}

func (s *ratingService) ListMyRatings(ctx context.Context, principalID uuid.UUID, role entity.UserRole) ([]response.RatingResponse, error) {
	if d := policy.Evaluate(role, policy.OpRead, policy.ResourceRating); !d.Allow {
		return nil, apperr.NewForbidden("not allowed to list ratings")
	}

	ratings, err := s.repo.Rating.FindByUserWithStore(ctx, principalID)
	if err != nil {
		s.log.Error("Failed to list ratings",
			zap.Error(err), zap.String("user_id", principalID.String()))
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	return response.RatingsWithStoreToResponse(ratings), nil
}

func (s *ratingService) GetMyRating(ctx context.Context, principalID uuid.UUID, role entity.UserRole, storeID uuid.UUID) (*response.RatingResponse, error) {
	if d := policy.Evaluate(role, policy.OpRead, policy.ResourceRating); !d.Allow {
		return nil, apperr.NewForbidden("not allowed to read ratings")
	}

	rating, err := s.repo.Rating.FindByUserAndStore(ctx, principalID, storeID)
	if err != nil {
		s.log.Error("Failed to get rating",
			zap.Error(err),
			zap.String("user_id", principalID.String()),
			zap.String("store_id", storeID.String()),
		)
		return nil, fmt.Errorf("get rating: %w", err)
	}
	if rating == nil {
		return nil, apperr.NewNotFound("rating", "")
	}

	resp := response.RatingToResponse(rating, "")
	return &resp, nil
}
