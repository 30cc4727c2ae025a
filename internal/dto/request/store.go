package request

import (
	"net/url"
	"strings"

	"store-rating/internal/apperr"
)

type CreateStoreRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Email   string  `json:"email" validate:"required,email"`
	Address string  `json:"address" validate:"required,max=400"`
	OwnerID *string `json:"owner_id,omitempty" validate:"omitempty,uuid4"`
}

type AssignOwnerRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid4"`
}

// Sort keys accepted by the store listing. Anything else is rejected with a
// ValidationError rather than silently falling back.
const (
	SortByName          = "name"
	SortByAverageRating = "average_rating"

	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// StoreQuery is the store listing query contract: case-insensitive substring
// search over name or address, plus a whitelisted sort key and direction.
type StoreQuery struct {
	Search    string
	SortBy    string
	SortOrder string
}

// StoreQueryFromValues parses and normalizes listing query parameters.
// Missing sortBy defaults to name, missing sortOrder to ASC. The sort inputs
// are matched case-insensitively; unknown values fail with field detail.
func StoreQueryFromValues(values url.Values) (*StoreQuery, error) {
	q := &StoreQuery{
		Search:    strings.TrimSpace(values.Get("search")),
		SortBy:    strings.ToLower(strings.TrimSpace(values.Get("sortBy"))),
		SortOrder: strings.ToUpper(strings.TrimSpace(values.Get("sortOrder"))),
	}

	if q.SortBy == "" {
		q.SortBy = SortByName
	}
	if q.SortOrder == "" {
		q.SortOrder = SortAsc
	}

	fields := make(map[string]string)
	switch q.SortBy {
	case SortByName, SortByAverageRating:
	default:
		fields["sortBy"] = "Must be one of: name, average_rating"
	}
	switch q.SortOrder {
	case SortAsc, SortDesc:
	default:
		fields["sortOrder"] = "Must be one of: ASC, DESC"
	}

	if len(fields) > 0 {
		return nil, apperr.NewValidation("invalid store query", fields)
	}

	return q, nil
}
