package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
	if _, err := NewTokenIssuer([]byte{}, time.Hour); err == nil {
		t.Fatal("expected error for zero-length secret, got nil")
	}
}

func TestNewTokenIssuer_RequiresPositiveTTL(t *testing.T) {
	if _, err := NewTokenIssuer([]byte("secret"), 0); err == nil {
		t.Fatal("expected error for zero ttl, got nil")
	}
	if _, err := NewTokenIssuer([]byte("secret"), -time.Hour); err == nil {
		t.Fatal("expected error for negative ttl, got nil")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	token, err := issuer.Issue("U1234567890abcdef")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if got != "U1234567890abcdef" {
		t.Errorf("expected sub U1234567890abcdef, got %s", got)
	}
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	// Negative ttl is rejected by the constructor, so build the expired
	// token directly with the same secret.
	secret := []byte("test-secret")
	issuer, err := NewTokenIssuer(secret, time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "U1",
		"iat": now.Add(-2 * time.Hour).Unix(),
		"exp": now.Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = issuer.Verify(expired)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenIssuer_TamperedSignature(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	token, err := issuer.Issue("U1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token parts, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = issuer.Verify(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuerA, _ := NewTokenIssuer([]byte("secret-a"), time.Hour)
	issuerB, _ := NewTokenIssuer([]byte("secret-b"), time.Hour)

	token, err := issuerA.Issue("U1")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, err = issuerB.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_MissingSubClaim(t *testing.T) {
	secret := []byte("test-secret")
	issuer, _ := NewTokenIssuer(secret, time.Hour)

	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrMissingClaim) {
		t.Errorf("expected ErrMissingClaim, got %v", err)
	}
}

func TestTokenIssuer_RejectsUnsignedToken(t *testing.T) {
	secret := []byte("test-secret")
	issuer, _ := NewTokenIssuer(secret, time.Hour)

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "U1",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	_, err = issuer.Verify(unsigned)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestTokenIssuer_GarbageInput(t *testing.T) {
	issuer, _ := NewTokenIssuer([]byte("test-secret"), time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("input %q: expected ErrInvalidToken, got %v", input, err)
		}
	}
}
