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

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	limit func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// Own profile, any authenticated role.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo, log), limit)

		r.Get("/api/users/profile", userHandler.GetProfile)
		r.Put("/api/users/password", userHandler.ChangePassword)
	})

	// Admin user management.
	r.With(
		middleware.AuthSession(repo, log),
		limit,
		middleware.RequireRole(log, entity.RoleAdmin),
	).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)
		r.Post("/", userHandler.CreateUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})
}
