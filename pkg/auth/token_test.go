package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "shopkeeper"}
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, "user-123", 30*time.Minute)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWT, got %q", token)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Identity() != "user-123" {
		t.Fatalf("unexpected identity %q", claims.Identity())
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	minted, err := MintAccessToken(config.JWTConfig{Secret: "secret", Issuer: "other"}, time.Now(), "user-123", time.Minute)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "secret", Issuer: "shopkeeper"}, minted); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRejectsBadSignature(t *testing.T) {
	minted, err := MintAccessToken(config.JWTConfig{Secret: "secret", Issuer: "shopkeeper"}, time.Now(), "user-123", time.Minute)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(config.JWTConfig{Secret: "different", Issuer: "shopkeeper"}, minted); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestIdentityFallsBackToSubject(t *testing.T) {
	claims := &AccessTokenClaims{}
	claims.Subject = "subject-user"
	if claims.Identity() != "subject-user" {
		t.Fatalf("unexpected identity %q", claims.Identity())
	}
}
