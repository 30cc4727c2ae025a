package usecase

import (
	"store-rating/internal/data/repository"
	"store-rating/pkg/metrics"
	"store-rating/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Store  StoreService
	Rating RatingService
}

func NewService(repo *repository.Repository, config *utils.Config, collector *metrics.Collector, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo, config, log),
		User:   NewUserService(repo, log),
		Store:  NewStoreService(repo, log),
		Rating: NewRatingService(repo, collector, log),
	}
}
