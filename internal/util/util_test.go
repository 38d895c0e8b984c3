package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestValidateJWT(t *testing.T) {
	claims := Claims{
		Email: "student@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	got, err := ValidateJWT(signToken(t, claims, testSecret), testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}
	if got.Subject != "user-123" {
		t.Errorf("subject = %q, want %q", got.Subject, "user-123")
	}
	if got.Email != "student@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "student@example.com")
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if _, err := ValidateJWT(signToken(t, claims, "other-secret"), testSecret); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	if _, err := ValidateJWT(signToken(t, claims, testSecret), testSecret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateJWTMissingSubject(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if _, err := ValidateJWT(signToken(t, claims, testSecret), testSecret); err == nil {
		t.Fatal("expected error for token without subject")
	}
}
