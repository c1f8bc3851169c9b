package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dermalink/dermalink-backend/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTTLHours:  24,
		RefreshTTLHours: 720,
	}
}

func TestMintAndParseTokenPair(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.NewString()

	access, err := MintAccessToken(cfg, now, userID)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	refresh, err := MintRefreshToken(cfg, now, userID)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	accessClaims, err := ParseAccessToken(cfg, access)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	refreshClaims, err := ParseRefreshToken(cfg, refresh)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}

	if accessClaims.UserID() != userID {
		t.Fatalf("expected sub %s, got %s", userID, accessClaims.UserID())
	}
	if refreshClaims.UserID() != userID {
		t.Fatalf("expected sub %s, got %s", userID, refreshClaims.UserID())
	}

	if !accessClaims.ExpiresAt.Before(refreshClaims.ExpiresAt.Time) {
		t.Fatalf("access expiry %v must be strictly before refresh expiry %v",
			accessClaims.ExpiresAt, refreshClaims.ExpiresAt)
	}

	wantAccessExp := now.Add(24 * time.Hour)
	if d := accessClaims.ExpiresAt.Sub(wantAccessExp); d < -time.Second || d > time.Second {
		t.Fatalf("expected access expiry ~%v, got %v", wantAccessExp, accessClaims.ExpiresAt)
	}
}

func TestTokenSecretsAreIndependent(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()
	userID := uuid.NewString()

	access, err := MintAccessToken(cfg, now, userID)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	refresh, err := MintRefreshToken(cfg, now, userID)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}

	if _, err := ParseRefreshToken(cfg, access); err == nil {
		t.Fatal("access token must not validate against the refresh secret")
	}
	if _, err := ParseAccessToken(cfg, refresh); err == nil {
		t.Fatal("refresh token must not validate against the access secret")
	}
}

func TestParseAccessTokenTampered(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), uuid.NewString())
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTTLHours = 1
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), uuid.NewString())
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintRequiresSecretAndSubject(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintAccessToken(config.JWTConfig{}, time.Now(), uuid.NewString()); err == nil {
		t.Fatal("expected missing secret error")
	}
	if _, err := MintAccessToken(cfg, time.Now(), ""); err == nil {
		t.Fatal("expected missing user id error")
	}
}
