package request

// UpsertRatingRequest creates the rating on first submission and overwrites
// the value on resubmission by the same user for the same store.
type UpsertRatingRequest struct {
	StoreID string `json:"store_id" validate:"required,uuid4"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}
