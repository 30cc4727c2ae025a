package usecase

import (
	"context"
	"fmt"
	"time"

	"store-rating/internal/apperr"
	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"
	"store-rating/internal/policy"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StoreService interface {
	// ListStores applies the principal's visibility scope before search and
	// sort, so position-based expectations hold over the visible subset.
	ListStores(ctx context.Context, principalID uuid.UUID, role entity.UserRole, query *request.StoreQuery) ([]response.StoreResponse, error)
	GetOwnedStores(ctx context.Context, principalID uuid.UUID, role entity.UserRole) ([]response.StoreResponse, error)
	GetOwnerSummary(ctx context.Context, principalID uuid.UUID, role entity.UserRole) (*response.OwnerSummary, error)

	// Admin operations.
	CreateStore(ctx context.Context, role entity.UserRole, req *request.CreateStoreRequest) (*response.StoreResponse, error)
	AssignOwner(ctx context.Context, role entity.UserRole, storeID uuid.UUID, req *request.AssignOwnerRequest) (*response.StoreResponse, error)
	DeleteStore(ctx context.Context, role entity.UserRole, storeID uuid.UUID) error
}

type storeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewStoreService(repo *repository.Repository, log *zap.Logger) StoreService {
	return &storeService{
		repo: repo,
		log:  log.With(zap.String("service", "store")),
	}
}

func (s *storeService) ListStores(ctx context.Context, principalID uuid.UUID, role entity.UserRole, query *request.StoreQuery) ([]response.StoreResponse, error) {
	decision := policy.Evaluate(role, policy.OpRead, policy.ResourceStore)
	if !decision.Allow {
		return nil, apperr.NewForbidden("not allowed to list stores")
	}

	var ownerFilter *uuid.UUID
	if decision.Scope == policy.ScopeOwn {
		ownerFilter = &principalID
	}

	stores, err := s.repo.Store.FindAll(ctx, query, ownerFilter)
	if err != nil {
		s.log.Error("Failed to list stores", zap.Error(err))
		return nil, fmt.Errorf("list stores: %w", err)
	}

	return response.StoresToResponse(stores), nil
}

func (s *storeService) GetOwnedStores(ctx context.Context, principalID uuid.UUID, role entity.UserRole) ([]response.StoreResponse, error) {
	decision := policy.Evaluate(role, policy.OpRead, policy.ResourceStore)
	if !decision.Allow || decision.Scope != policy.ScopeOwn {
		return nil, apperr.NewForbidden("store owner access required")
	}

	query := &request.StoreQuery{SortBy: request.SortByName, SortOrder: request.SortAsc}
	stores, err := s.repo.Store.FindAll(ctx, query, &principalID)
	if err != nil {
		s.log.Error("Failed to list owned stores",
			zap.Error(err), zap.String("owner_id", principalID.String()))
		return nil, fmt.Errorf("list owned stores: %w", err)
	}

	return response.StoresToResponse(stores), nil
}

// GetOwnerSummary reports totals across the principal's stores. The average
// is the mean over all individual ratings, not the mean of per-store means,
// so stores with more ratings weigh proportionally.
func (s *storeService) GetOwnerSummary(ctx context.Context, principalID uuid.UUID, role entity.UserRole) (*response.OwnerSummary, error) {
	decision := policy.Evaluate(role, policy.OpRead, policy.ResourceRating)
	if !decision.Allow || decision.Scope != policy.ScopeOwn || role != entity.RoleStoreOwner {
		return nil, apperr.NewForbidden("store owner access required")
	}

	agg, storeCount, err := s.repo.Store.OwnerSummary(ctx, principalID)
	if err != nil {
		s.log.Error("Failed to build owner summary",
			zap.Error(err), zap.String("owner_id", principalID.String()))
		return nil, fmt.Errorf("owner summary: %w", err)
	}

	return &response.OwnerSummary{
		TotalStores:   storeCount,
		TotalRatings:  agg.TotalRatings,
		AverageRating: agg.AverageRating,
	}, nil
}

func (s *storeService) CreateStore(ctx context.Context, role entity.UserRole, req *request.CreateStoreRequest) (*response.StoreResponse, error) {
	if d := policy.Evaluate(role, policy.OpWrite, policy.ResourceStore); !d.Allow {
		return nil, apperr.NewForbidden("admin access required")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.NewValidation("validation failed", errs)
	}

	var ownerID *uuid.UUID
	if req.OwnerID != nil {
		id, err := s.resolveOwner(ctx, *req.OwnerID)
		if err != nil {
			return nil, err
		}
		ownerID = &id
	}

	now := time.Now()
	store := &entity.Store{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: ownerID,
	}

	if err := s.repo.Store.Create(ctx, store); err != nil {
		s.log.Error("Failed to create store", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.log.Info("Store created",
		zap.String("store_id", store.ID.String()),
		zap.String("name", store.Name))

	resp := response.StoreToResponse(store)
	return &resp, nil
}

func (s *storeService) AssignOwner(ctx context.Context, role entity.UserRole, storeID uuid.UUID, req *request.AssignOwnerRequest) (*response.StoreResponse, error) {
	if d := policy.Evaluate(role, policy.OpWrite, policy.ResourceStore); !d.Allow {
		return nil, apperr.NewForbidden("admin access required")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.NewValidation("validation failed", errs)
	}

	store, err := s.repo.Store.FindByID(ctx, storeID)
	if err != nil {
		s.log.Error("Failed to find store", zap.Error(err), zap.String("store_id", storeID.String()))
		return nil, fmt.Errorf("find store: %w", err)
	}
	if store == nil {
		return nil, apperr.NewNotFound("store", storeID.String())
	}

	ownerID, err := s.resolveOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Store.AssignOwner(ctx, storeID, ownerID); err != nil {
		s.log.Error("Failed to assign owner",
			zap.Error(err),
			zap.String("store_id", storeID.String()),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("assign owner: %w", err)
	}

	store.OwnerID = &ownerID

	s.log.Info("Store owner assigned",
		zap.String("store_id", storeID.String()),
		zap.String("owner_id", ownerID.String()))

	resp := response.StoreToResponse(store)
	return &resp, nil
}

func (s *storeService) DeleteStore(ctx context.Context, role entity.UserRole, storeID uuid.UUID) error {
	if d := policy.Evaluate(role, policy.OpWrite, policy.ResourceStore); !d.Allow {
		return apperr.NewForbidden("admin access required")
	}

	store, err := s.repo.Store.FindByID(ctx, storeID)
	if err != nil {
		s.log.Error("Failed to find store for delete", zap.Error(err), zap.String("store_id", storeID.String()))
		return fmt.Errorf("find store: %w", err)
	}
	if store == nil {
		return apperr.NewNotFound("store", storeID.String())
	}

	if err := s.repo.Store.Delete(ctx, storeID); err != nil {
		s.log.Error("Failed to delete store", zap.Error(err), zap.String("store_id", storeID.String()))
		return fmt.Errorf("delete store: %w", err)
	}

	s.log.Info("Store deleted", zap.String("store_id", storeID.String()))
	return nil
}

// resolveOwner parses the owner id and verifies the account exists and holds
// the store_owner role.
func (s *storeService) resolveOwner(ctx context.Context, ownerID string) (uuid.UUID, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return uuid.Nil, apperr.NewValidation("invalid owner", map[string]string{"owner_id": "Must be a valid UUID"})
	}

	owner, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find owner", zap.Error(err), zap.String("owner_id", ownerID))
		return uuid.Nil, fmt.Errorf("find owner: %w", err)
	}
	if owner == nil {
		return uuid.Nil, apperr.NewNotFound("user", ownerID)
	}
	if owner.Role != entity.RoleStoreOwner {
		return uuid.Nil, apperr.NewValidation("invalid owner",
			map[string]string{"owner_id": "User must hold the store_owner role"})
	}

	return id, nil
}
