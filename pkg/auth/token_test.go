package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/config"
	"github.com/KrishMoond/eco/pkg/enums"
)

func tokenTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "token-test-secret",
		Issuer:            "eco-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := tokenTestConfig()
	payload := AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user %s, got %s", payload.UserID, claims.UserID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := tokenTestConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := cfg
	other.Secret = "a different secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := tokenTestConfig()
	issuedAt := time.Now().Add(-time.Duration(cfg.ExpirationMinutes+5) * time.Minute)
	signed, err := MintAccessToken(cfg, issuedAt, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestMintAccessTokenValidatesInputs(t *testing.T) {
	t.Parallel()

	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer}

	cfg := tokenTestConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected error without a secret")
	}

	cfg = tokenTestConfig()
	payload.Role = "superuser"
	if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
