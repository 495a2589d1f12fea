// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leasehub/backend/internal/core"
)

type fakeTokenRepo struct {
	tokens map[string]*RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *RefreshToken) error {
	copied := *token
	copied.CreatedAt = time.Now()
	f.tokens[token.ID] = &copied
	return nil
}

func (f *fakeTokenRepo) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	for _, token := range f.tokens {
		if token.TokenHash == tokenHash {
			copied := *token
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
}

func (f *fakeTokenRepo) FindByID(ctx context.Context, id string) (*RefreshToken, error) {
	token, ok := f.tokens[id]
	if !ok {
		return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
	}
	copied := *token
	return &copied, nil
}

func (f *fakeTokenRepo) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	token, ok := f.tokens[id]
	if !ok {
		return fmt.Errorf("mark token used: %w", core.ErrNotFound)
	}
	token.MarkAsUsed(replacedByID)
	return nil
}

func (f *fakeTokenRepo) RevokeByID(ctx context.Context, id string) error {
	token, ok := f.tokens[id]
	if !ok {
		return fmt.Errorf("revoke token: %w", core.ErrNotFound)
	}
	token.Revoke()
	return nil
}

func (f *fakeTokenRepo) RevokeByFamilyID(ctx context.Context, familyID string) error {
	for _, token := range f.tokens {
		if token.FamilyID == familyID && token.RevokedAt == nil {
			token.Revoke()
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	for _, token := range f.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.Revoke()
		}
	}
	return nil
}

func (f *fakeTokenRepo) GetActiveSessionsForUser(
	ctx context.Context,
	userID string,
) ([]RefreshToken, error) {
	var sessions []RefreshToken
	for _, token := range f.tokens {
		if token.UserID == userID && token.IsValid() {
			sessions = append(sessions, *token)
		}
	}
	return sessions, nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

var _ Repository = (*fakeTokenRepo)(nil)

// fakeUserProvider holds one user per email with an optional set of roles.
type fakeUser struct {
	info  UserInfo
	roles map[string]string
}

type fakeUserProvider struct {
	byEmail map[string]*fakeUser
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{byEmail: make(map[string]*fakeUser)}
}

func (f *fakeUserProvider) addUser(t *testing.T, email, password string, roles ...string) *fakeUser {
	t.Helper()
	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &fakeUser{
		info: UserInfo{
			ID:           "u-" + email,
			Email:        email,
			PasswordHash: hash,
		},
		roles: make(map[string]string),
	}
	for _, role := range roles {
		user.roles[role] = role + "-" + email
	}
	f.byEmail[email] = user
	return user
}

func (f *fakeUserProvider) GetByEmail(ctx context.Context, email string) (*UserInfo, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	info := user.info
	return &info, nil
}

func (f *fakeUserProvider) GetByID(ctx context.Context, id string) (*UserInfo, error) {
	for _, user := range f.byEmail {
		if user.info.ID == id {
			info := user.info
			return &info, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) CreateWithRole(
	ctx context.Context,
	params CreateUserParams,
) (*UserInfo, string, error) {
	if _, exists := f.byEmail[params.Email]; exists {
		return nil, "", fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	user := &fakeUser{
		info: UserInfo{
			ID:           "u-" + params.Email,
			Email:        params.Email,
			FirstName:    params.FirstName,
			LastName:     params.LastName,
			PasswordHash: params.PasswordHash,
		},
		roles: map[string]string{params.Role: params.Role + "-" + params.Email},
	}
	f.byEmail[params.Email] = user
	return &user.info, user.roles[params.Role], nil
}

func (f *fakeUserProvider) RoleID(ctx context.Context, userID, role string) (string, error) {
	for _, user := range f.byEmail {
		if user.info.ID == userID {
			if roleID, ok := user.roles[role]; ok {
				return roleID, nil
			}
			return "", fmt.Errorf("role id: %w", core.ErrNotFound)
		}
	}
	return "", fmt.Errorf("role id: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) IncrementTokenVersion(ctx context.Context, userID string) error {
	for _, user := range f.byEmail {
		if user.info.ID == userID {
			user.info.TokenVersion++
			return nil
		}
	}
	return fmt.Errorf("increment token version: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	for _, user := range f.byEmail {
		if user.info.ID == userID {
			user.info.PasswordHash = passwordHash
			return nil
		}
	}
	return fmt.Errorf("update password: %w", core.ErrNotFound)
}

var _ UserProvider = (*fakeUserProvider)(nil)

type fakeBlacklist struct {
	keys map[string]struct{}
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{keys: make(map[string]struct{})}
}

func (f *fakeBlacklist) Set(
	ctx context.Context,
	key string,
	value interface{},
	expiration time.Duration,
) *redis.StatusCmd {
	f.keys[key] = struct{}{}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeBlacklist) Exists(
	ctx context.Context,
	keys ...string,
) *redis.IntCmd {
	var hits int64
	for _, key := range keys {
		if _, ok := f.keys[key]; ok {
			hits++
		}
	}
	return redis.NewIntResult(hits, nil)
}

var _ TokenBlacklist = (*fakeBlacklist)(nil)

func newTestService(t *testing.T) (*Service, *fakeTokenRepo, *fakeUserProvider) {
	t.Helper()
	repo := newFakeTokenRepo()
	users := newFakeUserProvider()
	svc := NewService(
		repo,
		newTestJWTManager(t, 15*time.Minute),
		users,
		newFakeBlacklist(),
	)
	return svc, repo, users
}

func TestLoginBindsSessionToRole(t *testing.T) {
	svc, _, users := newTestService(t)
	users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleTenant)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     core.RoleTenant,
	}, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if resp.User.Role != core.RoleTenant {
		t.Fatalf("expected tenant session, got %s", resp.User.Role)
	}
	if resp.User.RoleID == "" {
		t.Fatalf("expected role id in response")
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens issued")
	}
}

func TestLoginRejectsMissingRoleAccount(t *testing.T) {
	svc, _, users := newTestService(t)
	users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleTenant)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     core.RoleLandlord,
	}, "ua", "127.0.0.1")
	if !errors.Is(err, ErrNoRoleAccount) {
		t.Fatalf("expected no-role-account error, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, users := newTestService(t)
	users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleTenant)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
		Role:     core.RoleTenant,
	}, "ua", "127.0.0.1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
		Role:     core.RoleTenant,
	}, "ua", "127.0.0.1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := RegisterRequest{
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		FirstName: "Alice",
		LastName:  "Smith",
		Role:      core.RoleLandlord,
	}

	if _, err := svc.Register(context.Background(), req, "ua", "127.0.0.1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Register(context.Background(), req, "ua", "127.0.0.1"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists error, got %v", err)
	}
}

func TestRefreshRotatesWithinRoleFamily(t *testing.T) {
	svc, _, users := newTestService(t)
	users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleLandlord)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     core.RoleLandlord,
	}, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := svc.Refresh(
		context.Background(), login.Tokens.RefreshToken, "ua", "127.0.0.1",
	)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	// The rotated session keeps the role the login established.
	if refreshed.User.Role != core.RoleLandlord {
		t.Fatalf("expected landlord session preserved, got %s", refreshed.User.Role)
	}
	if refreshed.Tokens.RefreshToken == login.Tokens.RefreshToken {
		t.Fatalf("expected a new refresh token after rotation")
	}
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	svc, _, users := newTestService(t)
	users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleTenant)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     core.RoleTenant,
	}, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	rotated, err := svc.Refresh(
		context.Background(), login.Tokens.RefreshToken, "ua", "127.0.0.1",
	)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	// Replaying the consumed token trips reuse detection.
	if _, err := svc.Refresh(
		context.Background(), login.Tokens.RefreshToken, "ua", "127.0.0.1",
	); !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("expected token reuse error, got %v", err)
	}

	// The whole family is dead, including the legitimately rotated token.
	if _, err := svc.Refresh(
		context.Background(), rotated.Tokens.RefreshToken, "ua", "127.0.0.1",
	); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("expected revoked error after family revocation, got %v", err)
	}
}

func TestRevokedAccessTokenFailsVerification(t *testing.T) {
	svc, _, users := newTestService(t)
	users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleTenant)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     core.RoleTenant,
	}, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := svc.VerifyAccessToken(
		context.Background(), login.Tokens.AccessToken,
	)
	if err != nil {
		t.Fatalf("live token should verify: %v", err)
	}
	if claims.JTI == "" {
		t.Fatalf("expected a jti on the access token")
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected a future expiry, got %v", claims.ExpiresAt)
	}

	if err := svc.RevokeAccessToken(
		context.Background(), claims.JTI, claims.ExpiresAt,
	); err != nil {
		t.Fatalf("revoke access token failed: %v", err)
	}

	// The signature is still valid; only the blacklist rejects it.
	if _, err := svc.VerifyAccessToken(
		context.Background(), login.Tokens.AccessToken,
	); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("expected revoked error for blacklisted token, got %v", err)
	}
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	svc, repo, users := newTestService(t)
	user := users.addUser(t, "alice@example.com", "s3cret-pass", core.RoleTenant)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Role:     core.RoleTenant,
	}, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.LogoutAll(context.Background(), user.info.ID); err != nil {
		t.Fatalf("logout all failed: %v", err)
	}

	if user.info.TokenVersion != 1 {
		t.Fatalf("expected token version bumped, got %d", user.info.TokenVersion)
	}

	sessions, _ := repo.GetActiveSessionsForUser(context.Background(), user.info.ID)
	if len(sessions) != 0 {
		t.Fatalf("expected no active sessions after logout-all, got %d", len(sessions))
	}

	if _, err := svc.Refresh(
		context.Background(), login.Tokens.RefreshToken, "ua", "127.0.0.1",
	); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("expected revoked refresh token after logout-all, got %v", err)
	}
}
