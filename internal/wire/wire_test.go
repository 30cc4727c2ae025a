package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"store-rating/internal/data/entity"
	"store-rating/internal/data/repository"
	"store-rating/internal/dto/request"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (s *stubUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}
func (s *stubUserRepo) CountAll(ctx context.Context) (int64, error) { return 0, nil }
func (s *stubUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}
func (s *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

type stubSessionRepo struct {
	sessions map[string]*entity.Session
}

func (s *stubSessionRepo) Create(ctx context.Context, session *entity.Session) error { return nil }
func (s *stubSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return s.sessions[token], nil
}
func (s *stubSessionRepo) Revoke(ctx context.Context, token string) error { return nil }

type stubStoreRepo struct{}

func (s *stubStoreRepo) Create(ctx context.Context, store *entity.Store) error { return nil }
func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return nil, nil
}
func (s *stubStoreRepo) FindAll(ctx context.Context, query *request.StoreQuery, ownerID *uuid.UUID) ([]*entity.Store, error) {
	return nil, nil
}
func (s *stubStoreRepo) AssignOwner(ctx context.Context, storeID, ownerID uuid.UUID) error {
	return nil
}
func (s *stubStoreRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubStoreRepo) OwnerSummary(ctx context.Context, ownerID uuid.UUID) (*entity.StoreAggregate, int, error) {
	return &entity.StoreAggregate{}, 0, nil
}

type stubRatingRepo struct{}

func (s *stubRatingRepo) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int, now time.Time) (*entity.Rating, bool, *entity.StoreAggregate, error) {
	return nil, false, nil, nil
}
func (s *stubRatingRepo) FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	return nil, nil
}
func (s *stubRatingRepo) FindByUserWithStore(ctx context.Context, userID uuid.UUID) ([]*entity.RatingWithStore, error) {
	return nil, nil
}

// newRatedApp wires the full router with the given burst and two live
// sessions, returning the router plus each principal's bearer token.
func newRatedApp(t *testing.T, burst int) (http.Handler, string, string) {
	t.Helper()

	userA := &entity.User{Base: entity.Base{ID: uuid.New()}, Name: "First Person Full Name", Role: entity.RoleUser}
	userB := &entity.User{Base: entity.Base{ID: uuid.New()}, Name: "Second Person Full Name", Role: entity.RoleUser}

	tokenA := uuid.New()
	tokenB := uuid.New()
	expiry := time.Now().Add(time.Hour)

	repo := &repository.Repository{
		User: &stubUserRepo{users: map[uuid.UUID]*entity.User{
			userA.ID: userA,
			userB.ID: userB,
		}},
		Session: &stubSessionRepo{sessions: map[string]*entity.Session{
			tokenA.String(): {UserID: userA.ID, Token: tokenA, ExpiresAt: expiry},
			tokenB.String(): {UserID: userB.ID, Token: tokenB, ExpiresAt: expiry},
		}},
		Store:  &stubStoreRepo{},
		Rating: &stubRatingRepo{},
	}

	config := &utils.Config{
		App:       utils.AppConfig{Name: "store-rating-test"},
		Session:   utils.SessionConfig{ExpiryHours: 24},
		RateLimit: utils.RateLimitConfig{RequestsPerMinute: 60, Burst: burst},
	}

	app := Wiring(repo, config, zap.NewNop())
	return app.Router, tokenA.String(), tokenB.String()
}

func doProfile(router http.Handler, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.RemoteAddr = "198.51.100.7:42000"
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

// Two authenticated principals behind the same address must draw from
// separate buckets: the limiter runs after session resolution, so it sees
// the user id, not just the peer address.
func TestRateLimit_SeparateBucketsPerPrincipal(t *testing.T) {
	router, tokenA, tokenB := newRatedApp(t, 1)

	if code := doProfile(router, tokenA); code != http.StatusOK {
		t.Fatalf("first principal: status = %d, want 200", code)
	}
	if code := doProfile(router, tokenB); code != http.StatusOK {
		t.Errorf("second principal from same address: status = %d, want 200", code)
	}
}

func TestRateLimit_SamePrincipalExhaustsBucket(t *testing.T) {
	router, tokenA, _ := newRatedApp(t, 1)

	if code := doProfile(router, tokenA); code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", code)
	}
	if code := doProfile(router, tokenA); code != http.StatusTooManyRequests {
		t.Errorf("second request in burst window: status = %d, want 429", code)
	}
}
