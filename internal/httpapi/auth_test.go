package httpapi

import (
	"context"
	"testing"
	"time"

	"nosticpos/backend/internal/domain"
	"nosticpos/backend/internal/store/memory"
)

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	repo := memory.NewSeeded()
	issuer := NewAuthManager("secret-one", time.Hour, repo, nil)
	verifier := NewAuthManager("secret-two", time.Hour, repo, nil)

	resp, err := issuer.Login(context.Background(), domain.LoginRequest{
		Email:    "admin@nosticpos.local",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := verifier.ParseToken(context.Background(), resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestParseTokenCarriesRole(t *testing.T) {
	auth := NewAuthManager("test-secret-key", time.Hour, memory.NewSeeded(), nil)

	resp, err := auth.Login(context.Background(), domain.LoginRequest{
		Email:    "manager@nosticpos.local",
		Password: "manager123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	actor, err := auth.ParseToken(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if actor.Email != "manager@nosticpos.local" || actor.Role != domain.RoleManager {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	auth := NewAuthManager("test-secret-key", time.Hour, memory.NewSeeded(), nil)

	if _, err := auth.Login(context.Background(), domain.LoginRequest{
		Email:    "  Admin@NosticPOS.local ",
		Password: "admin123",
	}); err != nil {
		t.Fatalf("expected case-insensitive email login, got %v", err)
	}
}

func TestBootstrapUpgradesLegacyPassword(t *testing.T) {
	repo := memory.NewSeeded()
	if err := repo.CreateUser(context.Background(), domain.UserAccount{
		Email:    "legacy@nosticpos.local",
		Password: "plain-text-password",
		Role:     domain.RoleCashier,
		Active:   true,
	}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	auth := NewAuthManager("test-secret-key", time.Hour, repo, nil)
	if _, err := auth.Login(context.Background(), domain.LoginRequest{
		Email:    "legacy@nosticpos.local",
		Password: "plain-text-password",
	}); err != nil {
		t.Fatalf("expected legacy password to be upgraded and accepted, got %v", err)
	}

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	for _, user := range users {
		if user.Email == "legacy@nosticpos.local" && !isPasswordHash(user.Password) {
			t.Fatalf("expected stored password to be re-hashed")
		}
	}
}
