package auth

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndValidate(t *testing.T) {
	m, err := NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("user-1", "CLIENT")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %s, want user-1", claims.Subject)
	}
	if claims.Role != "CLIENT" {
		t.Errorf("Role = %s, want CLIENT", claims.Role)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m1, _ := NewJWTManager(testSecret, time.Hour)
	m2, _ := NewJWTManager("another-secret-another-secret-xx", time.Hour)

	token, err := m1.GenerateToken("user-1", "CLIENT")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := m2.ValidateToken(token); err == nil {
		t.Error("Token from another secret validated")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m, _ := NewJWTManager(testSecret, -time.Minute)

	token, err := m.GenerateToken("user-1", "CLIENT")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("Expired token validated")
	}
}

func TestShortSecretRejected(t *testing.T) {
	if _, err := NewJWTManager("short", time.Hour); err == nil {
		t.Error("Short secret accepted")
	}
}
