// internal/wire/wire.go
package wire

import (
	"net/http"

	"store-rating/internal/adaptor"
	"store-rating/internal/data/repository"
	"store-rating/internal/usecase"
	"store-rating/pkg/metrics"
	"store-rating/pkg/middleware"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	collector := metrics.NewCollector()
	service := usecase.NewService(repo, config, collector, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, collector, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	collector *metrics.Collector,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(
		config.RateLimit.RequestsPerMinute,
		config.RateLimit.Burst,
	)

	r.Use(middleware.Logger(logger, collector))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// The limiter keys authenticated requests by principal, so it must run
	// after AuthSession; each wire function mounts it inside its groups.
	limit := limiter.Middleware()

	wireAuth(r, handler.Auth, repo, limit, logger)
	wireUser(r, handler.User, repo, limit, logger)
	wireStore(r, handler.Store, repo, limit, logger)
	wireRating(r, handler.Rating, repo, limit, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", collector.Handler())

	return r
}
