package auth

import (
	"testing"
	"time"

	"callintake-platform/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		JWTIssuer:       "callintake",
		JWTAudience:     "callintake-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager init: %v", err)
	}
	return m
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	pair, err := m.IssuePair(now, "u1", "reviewer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "reviewer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	pair, err := m.IssuePair(now, "u1", "agent")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(16*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerify_RejectsTokenTypeMismatch(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	pair, err := m.IssuePair(now, "u1", "agent")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(pair.RefreshToken, TokenTypeAccess, now.Add(time.Minute)); err == nil {
		t.Fatalf("expected token_type mismatch")
	}
	// Refresh tokens verify as refresh and carry no role.
	claims, err := m.Verify(pair.RefreshToken, TokenTypeRefresh, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if claims.Role != "" {
		t.Fatalf("refresh token must not carry role, got %q", claims.Role)
	}
}
