// AngelaMos | 2026
// service_test.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leasehub/backend/internal/auth"
	"github.com/leasehub/backend/internal/core"
)

type visibilityKey struct {
	a, b, c string
}

type fakeRepo struct {
	users            map[string]*User
	usersByEmail     map[string]*User
	roles            map[string]map[string]string
	tenantProfiles   map[string]*TenantProfile
	landlordProfiles map[string]*LandlordProfile
	tenantToLandlord map[visibilityKey]bool
	tenantToTenant   map[visibilityKey]bool
	landlordToTenant map[visibilityKey]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:            make(map[string]*User),
		usersByEmail:     make(map[string]*User),
		roles:            make(map[string]map[string]string),
		tenantProfiles:   make(map[string]*TenantProfile),
		landlordProfiles: make(map[string]*LandlordProfile),
		tenantToLandlord: make(map[visibilityKey]bool),
		tenantToTenant:   make(map[visibilityKey]bool),
		landlordToTenant: make(map[visibilityKey]bool),
	}
}

func (f *fakeRepo) CreateUserWithRole(ctx context.Context, user *User, role string) (string, error) {
	if _, exists := f.usersByEmail[user.Email]; exists {
		return "", fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	copied := *user
	f.users[user.ID] = &copied
	f.usersByEmail[user.Email] = &copied
	f.roles[user.ID] = map[string]string{role: role + "-" + user.ID}
	return f.roles[user.ID][role], nil
}

func (f *fakeRepo) CreateRole(ctx context.Context, userID, role string) (string, error) {
	if _, ok := f.users[userID]; !ok {
		return "", fmt.Errorf("create %s: %w", role, core.ErrNotFound)
	}
	if _, exists := f.roles[userID][role]; exists {
		return "", fmt.Errorf("create %s: %w", role, core.ErrDuplicateKey)
	}
	if f.roles[userID] == nil {
		f.roles[userID] = make(map[string]string)
	}
	f.roles[userID][role] = role + "-" + userID
	return f.roles[userID][role], nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) Update(ctx context.Context, user *User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	*stored = *user
	return nil
}

func (f *fakeRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	stored, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(ctx context.Context, id string) error {
	stored, ok := f.users[id]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	stored.TokenVersion++
	return nil
}

func (f *fakeRepo) RoleID(ctx context.Context, userID, role string) (string, error) {
	roleID, ok := f.roles[userID][role]
	if !ok {
		return "", fmt.Errorf("role id: %w", core.ErrNotFound)
	}
	return roleID, nil
}

func (f *fakeRepo) TenantProfileByID(ctx context.Context, tenantID string) (*TenantProfile, error) {
	profile, ok := f.tenantProfiles[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant profile: %w", core.ErrNotFound)
	}
	return profile, nil
}

func (f *fakeRepo) LandlordProfileByID(ctx context.Context, landlordID string) (*LandlordProfile, error) {
	profile, ok := f.landlordProfiles[landlordID]
	if !ok {
		return nil, fmt.Errorf("landlord profile: %w", core.ErrNotFound)
	}
	return profile, nil
}

func (f *fakeRepo) TenantVisibleToLandlord(
	ctx context.Context,
	tenantID, leaseID, landlordID string,
) (bool, error) {
	return f.landlordToTenant[visibilityKey{tenantID, leaseID, landlordID}], nil
}

func (f *fakeRepo) TenantSharesLease(
	ctx context.Context,
	viewerTenantID, tenantID, leaseID string,
) (bool, error) {
	return f.tenantToTenant[visibilityKey{viewerTenantID, tenantID, leaseID}], nil
}

func (f *fakeRepo) LandlordVisibleToTenant(
	ctx context.Context,
	landlordID, propertyID, tenantID string,
) (bool, error) {
	return f.tenantToLandlord[visibilityKey{landlordID, propertyID, tenantID}], nil
}

var _ Repository = (*fakeRepo)(nil)

func landlordActor(roleID string) core.Actor {
	return core.Actor{UserID: "u-" + roleID, Role: core.RoleLandlord, RoleID: roleID}
}

func tenantActor(roleID string) core.Actor {
	return core.Actor{UserID: "u-" + roleID, Role: core.RoleTenant, RoleID: roleID}
}

func TestTenantDetailsVisibility(t *testing.T) {
	repo := newFakeRepo()
	repo.tenantProfiles["t-alice"] = &TenantProfile{
		ID:    "t-alice",
		Email: "alice@example.com",
	}
	repo.landlordToTenant[visibilityKey{"t-alice", "lease-1", "ll-1"}] = true
	repo.tenantToTenant[visibilityKey{"t-bob", "t-alice", "lease-1"}] = true
	svc := NewService(repo)

	ctx := context.Background()

	// Self is always visible, no lease scope required.
	if _, err := svc.TenantDetails(ctx, tenantActor("t-alice"), "t-alice", ""); err != nil {
		t.Fatalf("self view failed: %v", err)
	}

	// Landlord of the lease's property.
	if _, err := svc.TenantDetails(ctx, landlordActor("ll-1"), "t-alice", "lease-1"); err != nil {
		t.Fatalf("landlord view failed: %v", err)
	}

	// Co-tenant on the same lease.
	if _, err := svc.TenantDetails(ctx, tenantActor("t-bob"), "t-alice", "lease-1"); err != nil {
		t.Fatalf("co-tenant view failed: %v", err)
	}

	// Landlord without a lease scope is a bad request, not a deny.
	_, err := svc.TenantDetails(ctx, landlordActor("ll-1"), "t-alice", "")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected bad request without lease_id, got %v", err)
	}

	// Unrelated landlord and unrelated tenant both get the same deny.
	if _, err := svc.TenantDetails(ctx, landlordActor("ll-2"), "t-alice", "lease-1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for unrelated landlord, got %v", err)
	}
	if _, err := svc.TenantDetails(ctx, tenantActor("t-carol"), "t-alice", "lease-1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for unrelated tenant, got %v", err)
	}

	// A missing tenant is indistinguishable from a denied one.
	if _, err := svc.TenantDetails(ctx, landlordActor("ll-1"), "t-ghost", "lease-1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for missing tenant, got %v", err)
	}
}

func TestLandlordDetailsVisibility(t *testing.T) {
	repo := newFakeRepo()
	repo.landlordProfiles["ll-1"] = &LandlordProfile{
		ID:    "ll-1",
		Email: "owner@example.com",
	}
	repo.tenantToLandlord[visibilityKey{"ll-1", "prop-1", "t-alice"}] = true
	svc := NewService(repo)

	ctx := context.Background()

	if _, err := svc.LandlordDetails(ctx, landlordActor("ll-1"), "ll-1", ""); err != nil {
		t.Fatalf("self view failed: %v", err)
	}

	if _, err := svc.LandlordDetails(ctx, tenantActor("t-alice"), "ll-1", "prop-1"); err != nil {
		t.Fatalf("member tenant view failed: %v", err)
	}

	_, err := svc.LandlordDetails(ctx, tenantActor("t-alice"), "ll-1", "")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected bad request without property_id, got %v", err)
	}

	if _, err := svc.LandlordDetails(ctx, tenantActor("t-stranger"), "ll-1", "prop-1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for unrelated tenant, got %v", err)
	}
	if _, err := svc.LandlordDetails(ctx, landlordActor("ll-2"), "ll-1", "prop-1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for another landlord, got %v", err)
	}
}

func TestUpdateMeAppliesPartialChanges(t *testing.T) {
	repo := newFakeRepo()
	repo.users["u-1"] = &User{
		ID:        "u-1",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}
	svc := NewService(repo)

	first := "Alicia"
	updated, err := svc.UpdateMe(context.Background(), "u-1", UpdateProfileRequest{
		FirstName: &first,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.FirstName != "Alicia" {
		t.Fatalf("expected first name updated, got %s", updated.FirstName)
	}
	if updated.LastName != "Smith" {
		t.Fatalf("expected untouched fields preserved, got %s", updated.LastName)
	}

	if _, err := svc.UpdateMe(context.Background(), "", UpdateProfileRequest{}); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized without user id, got %v", err)
	}
}

func authCreateParams(email string) auth.CreateUserParams {
	return auth.CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         core.RoleTenant,
	}
}

func TestCreateWithRoleNormalizesEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	info, roleID, err := svc.CreateWithRole(context.Background(), authCreateParams("Alice@Example.COM"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %s", info.Email)
	}
	if roleID == "" {
		t.Fatalf("expected a role id for the new account")
	}

	if _, _, err := svc.CreateWithRole(context.Background(), authCreateParams("alice@example.com")); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("expected duplicate for reused email, got %v", err)
	}
}

func TestAddRoleOpensSecondAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	info, tenantRoleID, err := svc.CreateWithRole(
		context.Background(), authCreateParams("alice@example.com"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	roleID, err := svc.AddRole(context.Background(), info.ID, core.RoleLandlord)
	if err != nil {
		t.Fatalf("add role failed: %v", err)
	}
	if roleID == "" || roleID == tenantRoleID {
		t.Fatalf("expected a distinct landlord role id, got %q", roleID)
	}

	// The new role resolves the way login resolves it.
	resolved, err := svc.RoleID(context.Background(), info.ID, core.RoleLandlord)
	if err != nil {
		t.Fatalf("resolve new role failed: %v", err)
	}
	if resolved != roleID {
		t.Fatalf("expected role id %q, got %q", roleID, resolved)
	}

	if _, err := svc.AddRole(
		context.Background(), info.ID, core.RoleLandlord,
	); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("expected duplicate for existing role, got %v", err)
	}

	if _, err := svc.AddRole(
		context.Background(), "", core.RoleLandlord,
	); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected unauthorized without user id, got %v", err)
	}
}
