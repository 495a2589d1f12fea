// AngelaMos | 2026
// service.go

package lease

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leasehub/backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type leaseTerms struct {
	start time.Time
	end   time.Time
	rent  int64
}

func parseTerms(startDate, endDate string, rentCents int64) (leaseTerms, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return leaseTerms{}, core.BadRequestError("invalid start_date")
	}

	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return leaseTerms{}, core.BadRequestError("invalid end_date")
	}

	if !end.After(start) {
		return leaseTerms{}, core.ValidationError(
			"end_date must be after start_date",
			nil,
		)
	}

	if rentCents < 0 {
		return leaseTerms{}, core.ValidationError(
			"monthly_rent_cents must not be negative",
			nil,
		)
	}

	return leaseTerms{start: start, end: end, rent: rentCents}, nil
}

func normalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	normalized := make([]string, 0, len(emails))

	for _, email := range emails {
		e := strings.ToLower(strings.TrimSpace(email))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		normalized = append(normalized, e)
	}

	return normalized
}

// resolveTenants maps emails to tenant IDs, failing with a single validation
// error that enumerates every unresolved email rather than the first one.
func resolveTenants(
	ctx context.Context,
	repo Repository,
	emails []string,
) (map[string]string, error) {
	resolved, err := repo.TenantsByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	var unresolved []string
	for _, email := range emails {
		if _, ok := resolved[email]; !ok {
			unresolved = append(unresolved, email)
		}
	}

	if len(unresolved) > 0 {
		return nil, core.ValidationError(
			"unknown tenant emails: "+strings.Join(unresolved, ", "),
			map[string]any{"unresolved_emails": unresolved},
		)
	}

	return resolved, nil
}

func recomputeStatus(
	ctx context.Context,
	repo Repository,
	leaseID string,
) error {
	memberships, err := repo.Memberships(ctx, leaseID)
	if err != nil {
		return err
	}

	return repo.UpdateStatus(ctx, leaseID, DeriveStatus(memberships))
}

// CreateLease creates an inactive lease with one unconfirmed membership per
// resolved tenant email. The whole operation is one transaction: an
// unresolved email rolls back the lease itself.
func (s *Service) CreateLease(
	ctx context.Context,
	actor core.Actor,
	propertyID string,
	req CreateLeaseRequest,
) (*Lease, error) {
	if !actor.IsLandlord() {
		return nil, core.ForbiddenError("")
	}

	terms, err := parseTerms(req.StartDate, req.EndDate, req.MonthlyRentCents)
	if err != nil {
		return nil, err
	}

	emails := normalizeEmails(req.TenantEmails)

	lease := &Lease{
		ID:               uuid.New().String(),
		PropertyID:       propertyID,
		StartDate:        terms.start,
		EndDate:          terms.end,
		MonthlyRentCents: terms.rent,
		Status:           StatusInactive,
	}

	err = s.repo.InTx(ctx, func(repo Repository) error {
		owner, err := repo.PropertyOwner(ctx, propertyID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.ForbiddenError("")
			}
			return err
		}
		if owner != actor.RoleID {
			return core.ForbiddenError("")
		}

		resolved, err := resolveTenants(ctx, repo, emails)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, lease); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return core.DuplicateError("lease for this property")
			}
			return err
		}

		for _, email := range emails {
			membership := &Membership{
				ID:        uuid.New().String(),
				LeaseID:   lease.ID,
				TenantID:  resolved[email],
				Confirmed: false,
			}
			if err := repo.AddMembership(ctx, membership); err != nil {
				return err
			}
		}

		return recomputeStatus(ctx, repo, lease.ID)
	})
	if err != nil {
		return nil, err
	}

	return lease, nil
}

// EditLease updates lease terms and diffs membership against the new email
// set: absent members are removed, new emails are added unconfirmed, and a
// tenant present in both sets keeps its confirmed flag untouched.
func (s *Service) EditLease(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
	req EditLeaseRequest,
) (*Lease, error) {
	if !actor.IsLandlord() {
		return nil, core.ForbiddenError("")
	}

	terms, err := parseTerms(req.StartDate, req.EndDate, req.MonthlyRentCents)
	if err != nil {
		return nil, err
	}

	emails := normalizeEmails(req.TenantEmails)

	var lease *Lease

	err = s.repo.InTx(ctx, func(repo Repository) error {
		locked, err := lockOwnedLease(ctx, repo, leaseID, actor.RoleID)
		if err != nil {
			return err
		}
		lease = locked

		resolved, err := resolveTenants(ctx, repo, emails)
		if err != nil {
			return err
		}

		lease.StartDate = terms.start
		lease.EndDate = terms.end
		lease.MonthlyRentCents = terms.rent

		if err := repo.UpdateTerms(ctx, lease); err != nil {
			return err
		}

		current, err := repo.Memberships(ctx, leaseID)
		if err != nil {
			return err
		}

		desired := make(map[string]struct{}, len(emails))
		for _, email := range emails {
			desired[resolved[email]] = struct{}{}
		}

		existing := make(map[string]struct{}, len(current))
		for _, m := range current {
			existing[m.TenantID] = struct{}{}
			if _, keep := desired[m.TenantID]; !keep {
				if err := repo.DeleteMembership(ctx, leaseID, m.TenantID); err != nil {
					return err
				}
			}
		}

		for tenantID := range desired {
			if _, ok := existing[tenantID]; ok {
				continue
			}
			membership := &Membership{
				ID:        uuid.New().String(),
				LeaseID:   leaseID,
				TenantID:  tenantID,
				Confirmed: false,
			}
			if err := repo.AddMembership(ctx, membership); err != nil {
				return err
			}
		}

		return recomputeStatus(ctx, repo, leaseID)
	})
	if err != nil {
		return nil, err
	}

	refreshed, err := s.repo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	return refreshed, nil
}

// CancelLease removes all memberships and the lease itself as one unit.
func (s *Service) CancelLease(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
) error {
	if !actor.IsLandlord() {
		return core.ForbiddenError("")
	}

	return s.repo.InTx(ctx, func(repo Repository) error {
		if _, err := lockOwnedLease(ctx, repo, leaseID, actor.RoleID); err != nil {
			return err
		}

		if err := repo.DeleteMembershipsByLease(ctx, leaseID); err != nil {
			return err
		}

		return repo.Delete(ctx, leaseID)
	})
}

// ConfirmMembership marks the acting tenant's membership confirmed. Safe
// under concurrent confirmations: the lease row lock serializes them, so the
// last committed recompute observes every confirmation.
func (s *Service) ConfirmMembership(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
) error {
	return s.tenantMembershipOp(ctx, actor, leaseID, func(
		repo Repository,
		membership *Membership,
	) error {
		if membership.Confirmed {
			return core.NotFoundError("unconfirmed membership")
		}
		return repo.SetConfirmed(ctx, leaseID, actor.RoleID, true)
	})
}

// DeclineMembership deletes the acting tenant's membership while it is still
// unconfirmed.
func (s *Service) DeclineMembership(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
) error {
	return s.tenantMembershipOp(ctx, actor, leaseID, func(
		repo Repository,
		membership *Membership,
	) error {
		if membership.Confirmed {
			return core.NotFoundError("unconfirmed membership")
		}
		return repo.DeleteMembership(ctx, leaseID, actor.RoleID)
	})
}

// BreakMembership deletes the acting tenant's membership after it was
// confirmed, reverting the lease to inactive if it was active.
func (s *Service) BreakMembership(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
) error {
	return s.tenantMembershipOp(ctx, actor, leaseID, func(
		repo Repository,
		membership *Membership,
	) error {
		if !membership.Confirmed {
			return core.NotFoundError("confirmed membership")
		}
		return repo.DeleteMembership(ctx, leaseID, actor.RoleID)
	})
}

// tenantMembershipOp is the single path for tenant-side membership mutations:
// lock the lease, load the actor's membership, apply the mutation, recompute
// status. Non-membership denies uniformly; a membership in the wrong state is
// reported as not found within the authorized scope.
func (s *Service) tenantMembershipOp(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
	mutate func(Repository, *Membership) error,
) error {
	if !actor.IsTenant() {
		return core.ForbiddenError("")
	}

	return s.repo.InTx(ctx, func(repo Repository) error {
		if _, err := repo.GetForUpdate(ctx, leaseID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.ForbiddenError("")
			}
			return err
		}

		membership, err := repo.GetMembership(ctx, leaseID, actor.RoleID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.ForbiddenError("")
			}
			return err
		}

		if err := mutate(repo, membership); err != nil {
			return err
		}

		return recomputeStatus(ctx, repo, leaseID)
	})
}

// GetLease returns the lease with its membership roster. Visible to the
// owning landlord and to member tenants.
func (s *Service) GetLease(
	ctx context.Context,
	actor core.Actor,
	leaseID string,
) (*Lease, []MembershipWithTenant, error) {
	lease, err := s.repo.GetByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, core.ForbiddenError("")
		}
		return nil, nil, err
	}

	allowed := false

	switch {
	case actor.IsLandlord():
		owner, err := s.repo.PropertyOwner(ctx, lease.PropertyID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, nil, err
		}
		allowed = err == nil && owner == actor.RoleID

	case actor.IsTenant():
		_, err := s.repo.GetMembership(ctx, leaseID, actor.RoleID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, nil, err
		}
		allowed = err == nil
	}

	if !allowed {
		return nil, nil, core.ForbiddenError("")
	}

	memberships, err := s.repo.MembershipsWithTenants(ctx, leaseID)
	if err != nil {
		return nil, nil, err
	}

	return lease, memberships, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	actor core.Actor,
) ([]Lease, error) {
	switch {
	case actor.IsLandlord():
		return s.repo.ListByLandlord(ctx, actor.RoleID)
	case actor.IsTenant():
		return s.repo.ListByTenant(ctx, actor.RoleID)
	default:
		return nil, core.ForbiddenError("")
	}
}

func lockOwnedLease(
	ctx context.Context,
	repo Repository,
	leaseID, landlordID string,
) (*Lease, error) {
	lease, err := repo.GetForUpdate(ctx, leaseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ForbiddenError("")
		}
		return nil, err
	}

	owner, err := repo.PropertyOwner(ctx, lease.PropertyID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ForbiddenError("")
		}
		return nil, err
	}

	if owner != landlordID {
		return nil, core.ForbiddenError("")
	}

	return lease, nil
}
