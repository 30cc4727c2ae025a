package entity

import (
	"github.com/google/uuid"
)

const (
	RatingMin = 1
	RatingMax = 5
)

// Rating holds one user's score for one store. At most one row exists per
// (UserID, StoreID) pair; resubmission updates Value and UpdatedAt in place.
type Rating struct {
	BaseNoDelete
	UserID  uuid.UUID `db:"user_id"`
	StoreID uuid.UUID `db:"store_id"`
	Value   int       `db:"value"`
}

// RatingWithStore is a Rating joined with the store's display name, used by
// the user-facing rating listings.
type RatingWithStore struct {
	Rating
	StoreName string `db:"store_name"`
}

// StoreAggregate is the recompute result for one store, produced inside the
// same unit of work as the rating mutation that triggered it.
type StoreAggregate struct {
	StoreID       uuid.UUID
	TotalRatings  int64
	AverageRating float64
}
