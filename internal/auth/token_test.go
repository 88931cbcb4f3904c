package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:           "test-secret",
		Issuer:              "helpdesk-service",
		Audience:            "helpdesk-clients",
		AccessTokenTTLHours: 8,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:       "11111111-2222-3333-4444-555555555555",
		Username: "ana",
		Email:    "ana@example.com",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testConfig())

	token, expiresAt, err := tm.GenerateToken(testUser(), []domain.RoleName{domain.RoleUser, domain.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	until := time.Until(expiresAt)
	if until < 7*time.Hour+59*time.Minute || until > 8*time.Hour {
		t.Errorf("expiry = %v from now, want ~8h", until)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != testUser().ID {
		t.Errorf("sub = %q", claims.Subject)
	}
	if claims.Email != "ana@example.com" || claims.Username != "ana" {
		t.Errorf("identity claims = %q/%q", claims.Email, claims.Username)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != domain.RoleUser || claims.Roles[1] != domain.RoleAdmin {
		t.Errorf("roles = %v", claims.Roles)
	}
	if claims.Issuer != "helpdesk-service" {
		t.Errorf("iss = %q", claims.Issuer)
	}
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	tm := NewTokenManager(testConfig())
	token, _, err := tm.GenerateToken(testUser(), []domain.RoleName{domain.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWTSecret = "other-secret"
	if _, err := NewTokenManager(otherCfg).ParseToken(token); err == nil {
		t.Fatal("token signed with different key accepted")
	}
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	issuerCfg := testConfig()
	issuerCfg.Issuer = "someone-else"
	token, _, err := NewTokenManager(issuerCfg).GenerateToken(testUser(), nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewTokenManager(testConfig()).ParseToken(token); err == nil {
		t.Fatal("token with foreign issuer accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testConfig())
	if _, err := tm.ParseToken("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
