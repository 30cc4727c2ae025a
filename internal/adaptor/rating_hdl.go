package adaptor

import (
	"encoding/json"
	"net/http"

	"store-rating/internal/dto/request"
	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingHandler struct {
	service usecase.RatingService
	log     *zap.Logger
}

func NewRatingHandler(service usecase.RatingService, log *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		log:     log.With(zap.String("handler", "rating")),
	}
}

// UpsertRating handles POST /api/ratings (user). First submission creates
// the rating, resubmission overwrites it.
func (h *RatingHandler) UpsertRating(w http.ResponseWriter, r *http.Request) {
	principalID, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpsertRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.UpsertRating(r.Context(), principalID, role, &req)
	if err != nil {
		h.log.Warn("Upsert rating failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	if resp.Created {
		utils.ResponseCreated(w, "Rating submitted", resp)
		return
	}
	utils.ResponseSuccess(w, "Rating updated", resp)
}

// ListMyRatings handles GET /api/ratings/user (user)
func (h *RatingHandler) ListMyRatings(w http.ResponseWriter, r *http.Request) {
	principalID, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ratings, err := h.service.ListMyRatings(r.Context(), principalID, role)
	if err != nil {
		h.log.Warn("List ratings failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", ratings)
}

// GetMyRating handles GET /api/ratings/user/{storeId} (user)
func (h *RatingHandler) GetMyRating(w http.ResponseWriter, r *http.Request) {
	principalID, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(chi.URLParam(r, "storeId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid store ID", nil)
		return
	}

	rating, err := h.service.GetMyRating(r.Context(), principalID, role, storeID)
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}
