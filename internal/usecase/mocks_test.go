package usecase

import (
	"context"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"

	"github.com/google/uuid"
)

// --- mocks ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, user *entity.User) error
	findByIDFn       func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	findByEmailFn    func(ctx context.Context, email string) (*entity.User, error)
	findAllFn        func(ctx context.Context, limit, offset int) ([]*entity.User, error)
	countAllFn       func(ctx context.Context) (int64, error)
	updatePasswordFn func(ctx context.Context, id uuid.UUID, passwordHash string) error
	deleteFn         func(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}
func (m *mockUserRepo) CountAll(ctx context.Context) (int64, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn           func(ctx context.Context, session *entity.Session) error
	findValidSessionFn func(ctx context.Context, token string) (*entity.Session, error)
	revokeFn           func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	if m.findValidSessionFn != nil {
		return m.findValidSessionFn(ctx, token)
	}
	return nil, nil
}
func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, token)
	}
	return nil
}

type mockStoreRepo struct {
	createFn       func(ctx context.Context, store *entity.Store) error
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*entity.Store, error)
	findAllFn      func(ctx context.Context, query *request.StoreQuery, ownerID *uuid.UUID) ([]*entity.Store, error)
	assignOwnerFn  func(ctx context.Context, storeID, ownerID uuid.UUID) error
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	ownerSummaryFn func(ctx context.Context, ownerID uuid.UUID) (*entity.StoreAggregate, int, error)
}

func (m *mockStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	if m.createFn != nil {
		return m.createFn(ctx, store)
	}
	return nil
}
func (m *mockStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockStoreRepo) FindAll(ctx context.Context, query *request.StoreQuery, ownerID *uuid.UUID) ([]*entity.Store, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, query, ownerID)
	}
	return nil, nil
}
func (m *mockStoreRepo) AssignOwner(ctx context.Context, storeID, ownerID uuid.UUID) error {
	if m.assignOwnerFn != nil {
		return m.assignOwnerFn(ctx, storeID, ownerID)
	}
	return nil
}
func (m *mockStoreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *mockStoreRepo) OwnerSummary(ctx context.Context, ownerID uuid.UUID) (*entity.StoreAggregate, int, error) {
	if m.ownerSummaryFn != nil {
		return m.ownerSummaryFn(ctx, ownerID)
	}
	return &entity.StoreAggregate{}, 0, nil
}

type mockRatingRepo struct {
	upsertFn              func(ctx context.Context, userID, storeID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error)
	findByUserAndStoreFn  func(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error)
	findByUserWithStoreFn func(ctx context.Context, userID uuid.UUID) ([]*entity.RatingWithStore, error)
}

func (m *mockRatingRepo) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, storeID, value, now)
	}
	return nil, false, nil, nil
}
func (m *mockRatingRepo) FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	if m.findByUserAndStoreFn != nil {
		return m.findByUserAndStoreFn(ctx, userID, storeID)
	}
	return nil, nil
}
func (m *mockRatingRepo) FindByUserWithStore(ctx context.Context, userID uuid.UUID) ([]*entity.RatingWithStore, error) {
	if m.findByUserWithStoreFn != nil {
		return m.findByUserWithStoreFn(ctx, userID)
	}
	return nil, nil
}

func newTestRepo(user *mockUserRepo, session *mockSessionRepo, store *mockStoreRepo, rating *mockRatingRepo) *repository.Repository {
	if user == nil {
		user = &mockUserRepo{}
	}
	if session == nil {
		session = &mockSessionRepo{}
	}
	if store == nil {
		store = &mockStoreRepo{}
	}
	if rating == nil {
		rating = &mockRatingRepo{}
	}
	return &repository.Repository{
		User:    user,
		Session: session,
		Store:   store,
		Rating:  rating,
	}
}
