package response

import (
	"time"

	"store-rating/internal/data/entity"
)

type RatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	StoreName string    `json:"store_name,omitempty"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertRatingResponse tells the client whether the submission created the
// rating or updated an existing one, plus the store aggregates recomputed in
// the same transaction.
type UpsertRatingResponse struct {
	Rating        RatingResponse `json:"rating"`
	Created       bool           `json:"created"`
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int64          `json:"total_ratings"`
}

func RatingToResponse(rating *entity.Rating, storeName string) RatingResponse {
	return RatingResponse{
		ID:        rating.ID.String(),
		UserID:    rating.UserID.String(),
		StoreID:   rating.StoreID.String(),
		StoreName: storeName,
		Rating:    rating.Value,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func RatingsWithStoreToResponse(ratings []*entity.RatingWithStore) []RatingResponse {
	responses := make([]RatingResponse, len(ratings))
	for i, r := range ratings {
		responses[i] = RatingToResponse(&r.Rating, r.StoreName)
	}
	return responses
}
