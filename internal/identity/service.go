// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leasehub/backend/internal/auth"
	"github.com/leasehub/backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// CreateWithRole registers a new user together with its landlord or tenant
// row; the returned role ID is the one embedded in issued tokens.
func (s *Service) CreateWithRole(
	ctx context.Context,
	params auth.CreateUserParams,
) (*auth.UserInfo, string, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(params.Email),
		PasswordHash: params.PasswordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
	}

	roleID, err := s.repo.CreateUserWithRole(ctx, user, params.Role)
	if err != nil {
		return nil, "", err
	}

	return toUserInfo(user), roleID, nil
}

// AddRole opens a second account for an existing user: a tenant can start
// acting as a landlord (or the other way around) without re-registering.
// The new role takes effect at the next login claiming it.
func (s *Service) AddRole(
	ctx context.Context,
	userID, role string,
) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("add role: %w", core.ErrUnauthorized)
	}

	roleID, err := s.repo.CreateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return "", core.DuplicateError(role + " account")
		}
		return "", err
	}

	return roleID, nil
}

// RoleID resolves the landlord or tenant row for a user, returning
// core.ErrNotFound when the user has no account in that role.
func (s *Service) RoleID(
	ctx context.Context,
	userID, role string,
) (string, error) {
	return s.repo.RoleID(ctx, userID, role)
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// TenantDetails returns a tenant's contact card. Landlords may view tenants
// on leases of properties they own; tenants may view themselves and
// co-tenants on a shared lease. Anyone else gets a uniform forbidden,
// including when the tenant does not exist.
func (s *Service) TenantDetails(
	ctx context.Context,
	actor core.Actor,
	tenantID, leaseID string,
) (*TenantProfile, error) {
	visible := false

	switch {
	case actor.IsTenant() && actor.RoleID == tenantID:
		visible = true

	case actor.IsLandlord():
		if leaseID == "" {
			return nil, core.BadRequestError("lease_id is required")
		}
		v, err := s.repo.TenantVisibleToLandlord(
			ctx,
			tenantID,
			leaseID,
			actor.RoleID,
		)
		if err != nil {
			return nil, err
		}
		visible = v

	case actor.IsTenant():
		if leaseID == "" {
			return nil, core.BadRequestError("lease_id is required")
		}
		v, err := s.repo.TenantSharesLease(
			ctx,
			actor.RoleID,
			tenantID,
			leaseID,
		)
		if err != nil {
			return nil, err
		}
		visible = v
	}

	if !visible {
		return nil, core.ForbiddenError("")
	}

	profile, err := s.repo.TenantProfileByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ForbiddenError("")
		}
		return nil, err
	}

	return profile, nil
}

// LandlordDetails returns a landlord's contact card. A tenant may view the
// landlord of a property they hold a lease membership on; landlords may view
// themselves.
func (s *Service) LandlordDetails(
	ctx context.Context,
	actor core.Actor,
	landlordID, propertyID string,
) (*LandlordProfile, error) {
	visible := false

	switch {
	case actor.IsLandlord() && actor.RoleID == landlordID:
		visible = true

	case actor.IsTenant():
		if propertyID == "" {
			return nil, core.BadRequestError("property_id is required")
		}
		v, err := s.repo.LandlordVisibleToTenant(
			ctx,
			landlordID,
			propertyID,
			actor.RoleID,
		)
		if err != nil {
			return nil, err
		}
		visible = v
	}

	if !visible {
		return nil, core.ForbiddenError("")
	}

	profile, err := s.repo.LandlordProfileByID(ctx, landlordID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ForbiddenError("")
		}
		return nil, err
	}

	return profile, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
