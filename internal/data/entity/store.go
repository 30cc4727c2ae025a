package entity

import (
	"github.com/google/uuid"
)

// Store carries derived AverageRating/TotalRatings columns. They are a
// materialized view over the ratings table and are written only inside the
// same transaction as the rating mutation that invalidated them.
type Store struct {
	BaseNoDelete
	Name          string     `db:"name"`
	Email         string     `db:"email"`
	Address       string     `db:"address"`
	OwnerID       *uuid.UUID `db:"owner_id"`
	AverageRating float64    `db:"average_rating"`
	TotalRatings  int64      `db:"total_ratings"`
}
