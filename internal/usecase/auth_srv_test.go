package usecase

import (
	"context"
	"testing"
	"time"

	"store-rating/internal/apperr"
	"store-rating/internal/data/entity"
	"store-rating/internal/dto/request"
	"store-rating/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newAuthService(user *mockUserRepo, session *mockSessionRepo) AuthService {
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 24}}
	return NewAuthService(newTestRepo(user, session, nil, nil), config, zap.NewNop())
}

func TestRegister(t *testing.T) {
	var created *entity.User
	var session *entity.Session
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *entity.User) error {
			created = user
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, s *entity.Session) error {
			session = s
			return nil
		},
	}
	svc := newAuthService(userRepo, sessionRepo)

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Budi Santoso",
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
		Address:  "Jl. Merdeka 10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Self-registration never yields an elevated role.
	if created.Role != entity.RoleUser {
		t.Errorf("role = %s, want user", created.Role)
	}
	if created.PasswordHash == "rahasia-sekali" {
		t.Error("password stored in plaintext")
	}
	if !utils.CheckPasswordHash("rahasia-sekali", created.PasswordHash) {
		t.Error("stored hash does not verify the password")
	}
	if session == nil {
		t.Fatal("no session created")
	}
	if session.UserID != created.ID {
		t.Error("session bound to wrong user")
	}
	if !session.ExpiresAt.After(time.Now().Add(23 * time.Hour)) {
		t.Error("session expiry not taken from config")
	}
	if resp.Token == "" {
		t.Error("response missing token")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			return &entity.User{Base: entity.Base{ID: uuid.New()}, Email: email}, nil
		},
	}
	svc := newAuthService(userRepo, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Budi Santoso",
		Email:    "taken@example.com",
		Password: "rahasia-sekali",
		Address:  "Jl. Merdeka 10",
	})
	if !apperr.IsConflict(err) {
		t.Errorf("got %v, want ConflictError", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, &mockSessionRepo{})

	tests := []request.RegisterRequest{
		{Name: "B", Email: "budi@example.com", Password: "rahasia-sekali", Address: "Jl. Merdeka 10"},
		{Name: "Budi", Email: "not-an-email", Password: "rahasia-sekali", Address: "Jl. Merdeka 10"},
		{Name: "Budi", Email: "budi@example.com", Password: "short", Address: "Jl. Merdeka 10"},
		{Name: "Budi", Email: "budi@example.com", Password: "rahasia-sekali"},
	}
	for i, req := range tests {
		if _, err := svc.Register(context.Background(), &req); !apperr.IsValidation(err) {
			t.Errorf("case %d: got %v, want ValidationError", i, err)
		}
	}
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("rahasia-sekali")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	userID := uuid.New()
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			if email == "budi@example.com" {
				return &entity.User{
					Base:         entity.Base{ID: userID},
					Email:        email,
					PasswordHash: hash,
					Role:         entity.RoleStoreOwner,
				}, nil
			}
			return nil, nil
		},
	}
	svc := newAuthService(userRepo, &mockSessionRepo{})

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.UserID != userID.String() {
		t.Error("response carries wrong user")
	}
	if resp.Role != entity.RoleStoreOwner {
		t.Errorf("role = %s, want store_owner", resp.Role)
	}
	if resp.Token == "" {
		t.Error("response missing token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	hash, err := utils.HashPassword("rahasia-sekali")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*entity.User, error) {
			if email == "budi@example.com" {
				return &entity.User{Base: entity.Base{ID: uuid.New()}, PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}
	svc := newAuthService(userRepo, &mockSessionRepo{})

	// Wrong password and unknown email produce the same error, so the
	// response does not leak which accounts exist.
	cases := []request.LoginRequest{
		{Email: "budi@example.com", Password: "salah"},
		{Email: "nobody@example.com", Password: "rahasia-sekali"},
	}
	for i, req := range cases {
		if _, err := svc.Login(context.Background(), &req); !apperr.IsUnauthorized(err) {
			t.Errorf("case %d: got %v, want UnauthorizedError", i, err)
		}
	}
}

func TestLogout(t *testing.T) {
	token := uuid.New().String()
	revoked := ""
	sessionRepo := &mockSessionRepo{
		revokeFn: func(ctx context.Context, tok string) error {
			revoked = tok
			return nil
		},
	}
	svc := newAuthService(&mockUserRepo{}, sessionRepo)

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked != token {
		t.Errorf("revoked %q, want %q", revoked, token)
	}

	if err := svc.Logout(context.Background(), "not-a-uuid"); !apperr.IsUnauthorized(err) {
		t.Errorf("got %v, want UnauthorizedError for malformed token", err)
	}
}
