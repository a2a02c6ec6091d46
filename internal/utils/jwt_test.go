package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := GenerateToken(secret, userID, "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	gotID, gotRole, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if gotID != userID {
		t.Errorf("user id = %s, want %s", gotID, userID)
	}
	if gotRole != "admin" {
		t.Errorf("role = %s, want admin", gotRole)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", uuid.New(), "customer", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, _, err := ParseToken("secret-b", token); err == nil {
		t.Error("expected an error for a token signed with another secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "customer", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, _, err := ParseToken("secret", token); err == nil {
		t.Error("expected an error for an expired token")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, _, err := ParseToken("secret", "not-a-token"); err == nil {
		t.Error("expected an error for malformed input")
	}
}
