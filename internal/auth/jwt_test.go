package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSignAndVerifyAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	playerID := uuid.New()

	token, err := svc.SignAccessToken(playerID, "+905551234567")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.PlayerID != playerID {
		t.Errorf("player ID mismatch: got %s, want %s", claims.PlayerID, playerID)
	}
	if claims.PhoneNumber != "+905551234567" {
		t.Errorf("phone mismatch: got %q", claims.PhoneNumber)
	}
}

func TestVerifyToken_wrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").SignAccessToken(uuid.New(), "+905551234567")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	if _, err := NewJWTService("secret-b").VerifyToken(token); err == nil {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestVerifyToken_tampered(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.SignAccessToken(uuid.New(), "+905551234567")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA"
	if _, err := svc.VerifyToken(tampered); err == nil {
		t.Error("tampered signature must not verify")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	token, hashHex, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	if token == "" || hashHex == "" {
		t.Fatal("token and hash must be non-empty")
	}
	if HashRefreshToken(token) != hashHex {
		t.Error("hash of generated token must match returned hash")
	}
	token2, _, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	if token == token2 {
		t.Error("tokens must be unique")
	}
}
