package auth

import (
	"testing"
	"time"

	domainuser "bookflow/internal/domain/user"
	"bookflow/internal/infra/security"
	"bookflow/internal/infra/storage/memory"
)

func newTestService() *Service {
	return &Service{
		Users:     memory.NewUserRepository(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.JWTManager{Secret: "test-secret", TTL: time.Hour},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := t.Context()

	result, err := svc.Register(ctx, RegisterParams{
		Name:     "John Doe",
		Email:    "John@Example.com",
		Password: "Password123!",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Token == "" {
		t.Error("Register returned no token")
	}
	if result.User.Email != "john@example.com" {
		t.Errorf("email = %q, want lowercased", result.User.Email)
	}
	if result.User.PasswordHash == "Password123!" {
		t.Error("password stored in plain text")
	}

	login, err := svc.Login(ctx, LoginParams{Email: "john@example.com", Password: "Password123!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Errorf("login resolved user %q, want %q", login.User.ID, result.User.ID)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(t.Context(), RegisterParams{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "short",
	})
	if err != ErrPasswordTooShort {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := t.Context()
	params := RegisterParams{Name: "John Doe", Email: "john@example.com", Password: "Password123!"}
	if _, err := svc.Register(ctx, params); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, params); err != domainuser.ErrEmailAlreadyUsed {
		t.Errorf("second Register err = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService()
	ctx := t.Context()
	if _, err := svc.Register(ctx, RegisterParams{
		Name: "John Doe", Email: "john@example.com", Password: "Password123!",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, LoginParams{Email: "john@example.com", Password: "wrong-password"}); err != ErrInvalidCredentials {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "Password123!"}); err != ErrInvalidCredentials {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}
