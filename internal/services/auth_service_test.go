package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forma-studio/forma-portal/internal/auth"
	"github.com/forma-studio/forma-portal/internal/models"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	jwtManager, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT manager: %v", err)
	}
	return NewAuthService(db, jwtManager)
}

func TestRegisterAndSignIn(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(t, db)

	session, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "علی رضایی",
		Email:    "Ali@Example.COM",
		Phone:    "۰۹۱۲۱۱۱۲۲۳۳",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if session.Token == "" {
		t.Errorf("No token issued on register")
	}
	if session.User.Email != "ali@example.com" {
		t.Errorf("Email not lowercased: %s", session.User.Email)
	}
	if session.User.Role != models.RoleClient {
		t.Errorf("Signup role = %s, want CLIENT", session.User.Role)
	}
	if session.User.Phone == nil || *session.User.Phone != "09121112233" {
		t.Errorf("Phone not normalized: %v", session.User.Phone)
	}
	if session.User.PasswordHash == "secret-password" {
		t.Errorf("Password stored in plaintext")
	}

	signIn, err := svc.SignIn(context.Background(), "ALI@example.com", "secret-password")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if signIn.User.ID != session.User.ID {
		t.Errorf("SignIn returned a different account")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(t, db)

	input := &RegisterInput{Name: "علی", Email: "dup@example.com", Password: "secret-password"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInFailures(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(t, db)

	if _, err := svc.Register(context.Background(), &RegisterInput{
		Name: "علی", Email: "ali@example.com", Password: "secret-password",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.SignIn(context.Background(), "ali@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "nobody@example.com", "secret-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	// Guest accounts from the contact form carry no password hash.
	guest := createClient(t, db, "guest@example.com")
	if _, err := svc.SignIn(context.Background(), guest.Email, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Passwordless guest: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(t, db)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"short name", RegisterInput{Name: "ع", Email: "a@b.io", Password: "secret-password"}},
		{"bad email", RegisterInput{Name: "علی", Email: "nope", Password: "secret-password"}},
		{"short password", RegisterInput{Name: "علی", Email: "a@b.io", Password: "12345"}},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), &tc.input)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}
