package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/haulwise/backoffice/internal/core/domain"
)

type stubAuthRepo struct {
	users       map[string]*domain.User
	wrapMissing bool
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	c := cloneUser(user)
	if c.ID == "" {
		c.ID = user.Username
	}
	r.users[c.Username] = cloneUser(c)
	return cloneUser(c), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		if r.wrapMissing {
			return nil, fmt.Errorf("find user %q: %w", username, domain.ErrUserNotFound)
		}
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice", "pass123", "alice@example.com", domain.RoleOperator, "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "", "pass", "", domain.RoleOperator, ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "pass", "", "client", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "hanul", "pass", "", domain.RoleCarrier, ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for carrier without company, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "bob", "pass", "", domain.RoleOperator, "")
	if _, err := svc.Register(context.Background(), "bob", "pass2", "", domain.RoleOperator, ""); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_CarrierClaims(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "hanul", "s3cret", "", domain.RoleCarrier, "carrier-1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "hanul", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.CompanyID != "carrier-1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleCarrier || claims["company_id"] != "carrier-1" {
		t.Fatalf("unexpected claims %v", claims)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	_, _ = svc.Register(context.Background(), "dave", "goodpass", "", domain.RoleAdmin, "")

	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_Login_WrappedNotFoundIsInvalidCredentials(t *testing.T) {
	repo := newStubAuthRepo()
	repo.wrapMissing = true
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
