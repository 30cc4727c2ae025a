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

func wireStore(
	r chi.Router,
	storeHandler *adaptor.StoreHandler,
	repo *repository.Repository,
	limit func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// Browsing: users and admins see all stores, owners are redirected to
	// their own listing below.
	r.With(
		middleware.AuthSession(repo, log),
		limit,
		middleware.RequireRole(log, entity.RoleUser, entity.RoleAdmin),
	).Get("/api/stores", storeHandler.ListStores)

	// Owner dashboard.
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.AuthSession(repo, log),
			limit,
			middleware.RequireRole(log, entity.RoleStoreOwner),
		)

		r.Get("/api/stores/owner", storeHandler.GetOwnedStores)
		r.Get("/api/stores/owner/summary", storeHandler.GetOwnerSummary)
	})

	// Admin store management.
	r.With(
		middleware.AuthSession(repo, log),
		limit,
		middleware.RequireRole(log, entity.RoleAdmin),
	).Route("/api/admin/stores", func(r chi.Router) {
		r.Get("/", storeHandler.ListStores)
		r.Post("/", storeHandler.CreateStore)
		r.Put("/{id}/owner", storeHandler.AssignOwner)
		r.Delete("/{id}", storeHandler.DeleteStore)
	})
}
