// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/leasehub/backend/internal/config"
	"github.com/leasehub/backend/internal/core"
)

func newTestJWTManager(t *testing.T, accessExpire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("generate key pair: %v", err)
	}

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  accessExpire,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "leasehub",
		Audience:           "leasehub-api",
	})
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}

	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	claims := AccessTokenClaims{
		UserID:       "user-1",
		Role:         core.RoleTenant,
		RoleID:       "tenant-1",
		TokenVersion: 3,
	}

	signed, err := manager.CreateAccessToken(claims)
	if err != nil {
		t.Fatalf("create access token: %v", err)
	}

	verified, err := manager.VerifyAccessToken(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}

	if verified.UserID != claims.UserID {
		t.Fatalf("expected subject %s, got %s", claims.UserID, verified.UserID)
	}
	if verified.Role != claims.Role {
		t.Fatalf("expected role %s, got %s", claims.Role, verified.Role)
	}
	if verified.RoleID != claims.RoleID {
		t.Fatalf("expected role_id %s, got %s", claims.RoleID, verified.RoleID)
	}
	if verified.TokenVersion != claims.TokenVersion {
		t.Fatalf("expected token_version %d, got %d", claims.TokenVersion, verified.TokenVersion)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager := newTestJWTManager(t, -time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-1",
		Role:   core.RoleLandlord,
		RoleID: "ll-1",
	})
	if err != nil {
		t.Fatalf("create access token: %v", err)
	}

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("expected token expired error, got %v", err)
	}
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	issuer := newTestJWTManager(t, 15*time.Minute)
	verifier := newTestJWTManager(t, 15*time.Minute)

	signed, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: "user-1",
		Role:   core.RoleTenant,
		RoleID: "t-1",
	})
	if err != nil {
		t.Fatalf("create access token: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), signed); err == nil {
		t.Fatalf("expected verification failure for token signed with another key")
	}

	if _, err := verifier.VerifyAccessToken(context.Background(), "not-a-token"); err == nil {
		t.Fatalf("expected verification failure for garbage input")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	data, err := manager.CreateRefreshToken("user-1", "")
	if err != nil {
		t.Fatalf("create refresh token: %v", err)
	}

	if data.FamilyID == "" {
		t.Fatalf("expected a family id for a fresh token")
	}
	if !manager.VerifyRefreshTokenHash(data.Token, data.Hash) {
		t.Fatalf("expected token to match its own hash")
	}
	if manager.VerifyRefreshTokenHash("tampered", data.Hash) {
		t.Fatalf("expected mismatch for a different token")
	}

	rotated, err := manager.CreateRefreshToken("user-1", data.FamilyID)
	if err != nil {
		t.Fatalf("rotate refresh token: %v", err)
	}
	if rotated.FamilyID != data.FamilyID {
		t.Fatalf("expected rotation to stay in the same family")
	}
	if rotated.Token == data.Token {
		t.Fatalf("expected a new token value on rotation")
	}
}
