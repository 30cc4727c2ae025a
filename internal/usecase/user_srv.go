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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error

	// Admin operations.
	CreateUser(ctx context.Context, role entity.UserRole, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, role entity.UserRole, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, role entity.UserRole, userID uuid.UUID) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, apperr.NewNotFound("user", userID.String())
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperr.NewValidation("validation failed", errs)
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for password change",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("change password: %w", err)
	}
	if user == nil {
		return apperr.NewNotFound("user", userID.String())
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperr.NewUnauthorized("current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, userID, hash); err != nil {
		s.log.Error("Failed to update password",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

// CreateUser provisions an account with any role. The role is immutable
// afterwards; there is no promotion path.
func (s *userService) CreateUser(ctx context.Context, role entity.UserRole, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if d := policy.Evaluate(role, policy.OpWrite, policy.ResourceUser); !d.Allow || d.Scope != policy.ScopeAll {
		return nil, apperr.NewForbidden("admin access required")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.NewValidation("validation failed", errs)
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperr.NewConflict("email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         entity.UserRole(req.Role),
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to provision user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("role", req.Role))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetAllUsers(ctx context.Context, role entity.UserRole, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if d := policy.Evaluate(role, policy.OpRead, policy.ResourceUser); !d.Allow || d.Scope != policy.ScopeAll {
		return nil, apperr.NewForbidden("admin access required")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	users, err := s.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, req.Page, req.PerPage, total), nil
}

// DeleteUser removes the account: its ratings are hard deleted, every
// affected store is recomputed, sessions are revoked and the user row is
// soft-deleted, all in one transaction. A failure rolls everything back.
func (s *userService) DeleteUser(ctx context.Context, role entity.UserRole, userID uuid.UUID) error {
	if d := policy.Evaluate(role, policy.OpWrite, policy.ResourceUser); !d.Allow || d.Scope != policy.ScopeAll {
		return apperr.NewForbidden("admin access required")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for delete", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return apperr.NewNotFound("user", userID.String())
	}

	storeIDs, err := s.repo.User.Delete(ctx, userID)
	if err != nil {
		s.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.Int("stores_recomputed", len(storeIDs)))

	return nil
}
