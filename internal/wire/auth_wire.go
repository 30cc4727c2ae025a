package wire

import (
	"net/http"

	"store-rating/internal/adaptor"
	"store-rating/internal/data/repository"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	limit func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// Public routes, limited by client IP.
	r.With(limit).Post("/api/auth/register", authHandler.Register)
	r.With(limit).Post("/api/auth/login", authHandler.Login)

	// Logout needs a valid session to revoke.
	r.With(middleware.AuthSession(repo, log), limit).Post("/api/auth/logout", authHandler.Logout)
}
