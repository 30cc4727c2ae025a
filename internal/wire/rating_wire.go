package wire

import (
	"net/http"

	"store-rating/internal/adaptor"
	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRating(
	r chi.Router,
	ratingHandler *adaptor.RatingHandler,
	repo *repository.Repository,
	limit func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthSession(repo, log),
			limit,
			middleware.RequireRole(log, entity.RoleUser),
		)

		r.Post("/api/ratings", ratingHandler.UpsertRating)
		r.Get("/api/ratings/user", ratingHandler.ListMyRatings)
		r.Get("/api/ratings/user/{storeId}", ratingHandler.GetMyRating)
	})
}
