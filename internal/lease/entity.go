// AngelaMos | 2026
// entity.go

package lease

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Lease is a rental agreement on a single property. Status is derived from
// the membership set and cached here: active iff the lease has at least one
// membership and every membership is confirmed. It is recomputed inside the
// same transaction as every membership mutation, never at read time.
type Lease struct {
	ID               string    `db:"id"`
	PropertyID       string    `db:"property_id"`
	StartDate        time.Time `db:"start_date"`
	EndDate          time.Time `db:"end_date"`
	MonthlyRentCents int64     `db:"monthly_rent_cents"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Membership attaches one tenant to one lease, unique per pair. A membership
// starts unconfirmed; the tenant confirms it, declines it (row deleted), or
// later breaks it (row deleted after confirmation).
type Membership struct {
	ID        string    `db:"id"`
	LeaseID   string    `db:"lease_id"`
	TenantID  string    `db:"tenant_id"`
	Confirmed bool      `db:"confirmed"`
	CreatedAt time.Time `db:"created_at"`
}

// MembershipWithTenant joins a membership with the tenant's contact fields
// for detail views.
type MembershipWithTenant struct {
	Membership
	Email     string `db:"email"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

// DeriveStatus computes the lease status from a membership set.
func DeriveStatus(memberships []Membership) string {
	if len(memberships) == 0 {
		return StatusInactive
	}

	for _, m := range memberships {
		if !m.Confirmed {
			return StatusInactive
		}
	}

	return StatusActive
}
