package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:           "test-secret",
		Issuer:              "helpdesk-service",
		Audience:            "helpdesk-clients",
		AccessTokenTTLHours: 8,
		BcryptCost:          bcrypt.MinCost,
	}
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	store := repository.NewMemStore()
	store.SeedRoles()
	svc := NewAuthService(testAuthConfig(), repository.NewMemTxManager(store))

	user, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "ana" || user.Email != "ana@example.com" {
		t.Errorf("unexpected summary: %+v", user)
	}

	stored, ok := store.Users[user.UserID]
	if !ok {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "secret" || stored.PasswordHash == "" {
		t.Error("password stored without hashing")
	}

	roles := store.RoleNamesFor(user.UserID)
	if len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Errorf("roles = %v, want [User]", roles)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := repository.NewMemStore()
	store.SeedRoles()
	svc := NewAuthService(testAuthConfig(), repository.NewMemTxManager(store))

	if _, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "other", "ana@example.com", "secret")
	if !apperrors.IsCode(err, "DUPLICATE_EMAIL") {
		t.Fatalf("err = %v, want DUPLICATE_EMAIL", err)
	}

	count := 0
	for _, user := range store.Users {
		if user.Email == "ana@example.com" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("users with email = %d, want 1", count)
	}
}

func TestRegisterMissingRoleSeed(t *testing.T) {
	store := repository.NewMemStore() // no roles seeded
	svc := NewAuthService(testAuthConfig(), repository.NewMemTxManager(store))

	_, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret")
	if !apperrors.IsCode(err, "CONFIGURATION_ERROR") {
		t.Fatalf("err = %v, want CONFIGURATION_ERROR", err)
	}
	if len(store.Users) != 0 {
		t.Errorf("users persisted = %d, want 0", len(store.Users))
	}
}

func TestLoginIssuesRoleClaims(t *testing.T) {
	store := repository.NewMemStore()
	store.SeedRoles()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	admin := store.AddUser("boss", "boss@example.com", string(hash), domain.RoleUser, domain.RoleAdmin)
	svc := NewAuthService(testAuthConfig(), repository.NewMemTxManager(store))

	result, err := svc.Login(context.Background(), "boss@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.UserID != admin.ID || result.Email != admin.Email || result.Username != admin.Username {
		t.Errorf("unexpected result: %+v", result)
	}

	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != admin.ID {
		t.Errorf("sub = %q, want %q", claims.Subject, admin.ID)
	}
	if claims.Email != admin.Email || claims.Username != admin.Username {
		t.Errorf("identity claims = %q/%q", claims.Email, claims.Username)
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("roles = %v, want one claim per assigned role", claims.Roles)
	}
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	store := repository.NewMemStore()
	store.SeedRoles()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	store.AddUser("ana", "ana@example.com", string(hash), domain.RoleUser)
	svc := NewAuthService(testAuthConfig(), repository.NewMemTxManager(store))

	_, errWrongPassword := svc.Login(context.Background(), "ana@example.com", "nope")
	_, errUnknownEmail := svc.Login(context.Background(), "ghost@example.com", "secret")

	if !apperrors.IsCode(errWrongPassword, "INVALID_CREDENTIALS") {
		t.Fatalf("wrong password err = %v", errWrongPassword)
	}
	if !apperrors.IsCode(errUnknownEmail, "INVALID_CREDENTIALS") {
		t.Fatalf("unknown email err = %v", errUnknownEmail)
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Errorf("error messages differ: %q vs %q", errWrongPassword, errUnknownEmail)
	}
}
