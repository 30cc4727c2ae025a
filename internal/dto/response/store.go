package response

import (
	"time"

	"store-rating/internal/data/entity"
)

// StoreResponse exposes average_rating at full precision; display rounding
// happens at the presentation boundary, not here.
type StoreResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       *string   `json:"owner_id,omitempty"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int64     `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
}

// OwnerSummary aggregates across all stores the principal owns. The average
// is the mean over every individual rating, not the mean of per-store means.
type OwnerSummary struct {
	TotalStores   int     `json:"total_stores"`
	TotalRatings  int64   `json:"total_ratings"`
	AverageRating float64 `json:"average_rating"`
}

func StoreToResponse(store *entity.Store) StoreResponse {
	resp := StoreResponse{
		ID:            store.ID.String(),
		Name:          store.Name,
		Email:         store.Email,
		Address:       store.Address,
		AverageRating: store.AverageRating,
		TotalRatings:  store.TotalRatings,
		CreatedAt:     store.CreatedAt,
	}

	if store.OwnerID != nil {
		ownerID := store.OwnerID.String()
		resp.OwnerID = &ownerID
	}

	return resp
}

func StoresToResponse(stores []*entity.Store) []StoreResponse {
	responses := make([]StoreResponse, len(stores))
	for i, store := range stores {
		responses[i] = StoreToResponse(store)
	}
	return responses
}
