// AngelaMos | 2026
// repository.go

package lease

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/leasehub/backend/internal/core"
)

type Repository interface {
	// InTx runs fn against a transaction-bound view of the repository. All
	// membership mutations go through here so the lease row lock taken by
	// GetForUpdate serializes them.
	InTx(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, lease *Lease) error
	GetByID(ctx context.Context, id string) (*Lease, error)
	GetForUpdate(ctx context.Context, id string) (*Lease, error)
	UpdateTerms(ctx context.Context, lease *Lease) error
	UpdateStatus(ctx context.Context, leaseID, status string) error
	Delete(ctx context.Context, leaseID string) error

	PropertyOwner(ctx context.Context, propertyID string) (string, error)
	TenantsByEmails(
		ctx context.Context,
		emails []string,
	) (map[string]string, error)

	Memberships(ctx context.Context, leaseID string) ([]Membership, error)
	MembershipsWithTenants(
		ctx context.Context,
		leaseID string,
	) ([]MembershipWithTenant, error)
	GetMembership(
		ctx context.Context,
		leaseID, tenantID string,
	) (*Membership, error)
	AddMembership(ctx context.Context, membership *Membership) error
	SetConfirmed(
		ctx context.Context,
		leaseID, tenantID string,
		confirmed bool,
	) error
	DeleteMembership(ctx context.Context, leaseID, tenantID string) error
	DeleteMembershipsByLease(ctx context.Context, leaseID string) error

	ListByLandlord(ctx context.Context, landlordID string) ([]Lease, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Lease, error)
}

type repository struct {
	db   core.DBTX
	pool *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, pool: db}
}

func (r *repository) InTx(
	ctx context.Context,
	fn func(Repository) error,
) error {
	if r.pool == nil {
		return fn(r)
	}

	return core.InTx(ctx, r.pool, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) Create(ctx context.Context, lease *Lease) error {
	query := `
		INSERT INTO leases (
			id, property_id, start_date, end_date, monthly_rent_cents, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, lease, query,
		lease.ID,
		lease.PropertyID,
		lease.StartDate,
		lease.EndDate,
		lease.MonthlyRentCents,
		lease.Status,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create lease: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create lease: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Lease, error) {
	query := `
		SELECT id, property_id, start_date, end_date, monthly_rent_cents,
		       status, created_at, updated_at
		FROM leases
		WHERE id = $1`

	var lease Lease
	err := r.db.GetContext(ctx, &lease, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lease: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lease: %w", err)
	}

	return &lease, nil
}

// GetForUpdate locks the lease row for the rest of the transaction, so
// concurrent membership mutations on the same lease serialize.
func (r *repository) GetForUpdate(
	ctx context.Context,
	id string,
) (*Lease, error) {
	query := `
		SELECT id, property_id, start_date, end_date, monthly_rent_cents,
		       status, created_at, updated_at
		FROM leases
		WHERE id = $1
		FOR UPDATE`

	var lease Lease
	err := r.db.GetContext(ctx, &lease, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock lease: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsSerializationFailure(err) {
			return nil, fmt.Errorf("lock lease: %w", core.ErrContention)
		}
		return nil, fmt.Errorf("lock lease: %w", err)
	}

	return &lease, nil
}

func (r *repository) UpdateTerms(ctx context.Context, lease *Lease) error {
	query := `
		UPDATE leases
		SET start_date = $2, end_date = $3, monthly_rent_cents = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &lease.UpdatedAt, query,
		lease.ID,
		lease.StartDate,
		lease.EndDate,
		lease.MonthlyRentCents,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update lease: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update lease: %w", err)
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	leaseID, status string,
) error {
	query := `
		UPDATE leases
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, leaseID, status)
	if err != nil {
		return fmt.Errorf("update lease status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lease status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update lease status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, leaseID string) error {
	query := `DELETE FROM leases WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, leaseID)
	if err != nil {
		return fmt.Errorf("delete lease: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lease: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete lease: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) PropertyOwner(
	ctx context.Context,
	propertyID string,
) (string, error) {
	query := `SELECT landlord_id FROM properties WHERE id = $1`

	var landlordID string
	err := r.db.GetContext(ctx, &landlordID, query, propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get property owner: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get property owner: %w", err)
	}

	return landlordID, nil
}

// TenantsByEmails resolves emails to tenant IDs in one query. Emails with no
// tenant are simply absent from the result; the caller decides what missing
// means.
func (r *repository) TenantsByEmails(
	ctx context.Context,
	emails []string,
) (map[string]string, error) {
	if len(emails) == 0 {
		return map[string]string{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT t.id, u.email
		FROM tenants t
		JOIN users u ON u.id = t.user_id
		WHERE u.email IN (?)`, emails)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant emails: %w", err)
	}

	query = sqlx.Rebind(sqlx.DOLLAR, query)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant emails: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	resolved := make(map[string]string, len(emails))
	for rows.Next() {
		var id, email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, fmt.Errorf("resolve tenant emails: %w", err)
		}
		resolved[email] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve tenant emails: %w", err)
	}

	return resolved, nil
}

func (r *repository) Memberships(
	ctx context.Context,
	leaseID string,
) ([]Membership, error) {
	query := `
		SELECT id, lease_id, tenant_id, confirmed, created_at
		FROM lease_tenants
		WHERE lease_id = $1
		ORDER BY created_at`

	var memberships []Membership
	if err := r.db.SelectContext(ctx, &memberships, query, leaseID); err != nil {
		return nil, fmt.Errorf("get memberships: %w", err)
	}

	return memberships, nil
}

func (r *repository) MembershipsWithTenants(
	ctx context.Context,
	leaseID string,
) ([]MembershipWithTenant, error) {
	query := `
		SELECT lt.id, lt.lease_id, lt.tenant_id, lt.confirmed, lt.created_at,
		       u.email, u.first_name, u.last_name
		FROM lease_tenants lt
		JOIN tenants t ON t.id = lt.tenant_id
		JOIN users u ON u.id = t.user_id
		WHERE lt.lease_id = $1
		ORDER BY lt.created_at`

	var memberships []MembershipWithTenant
	if err := r.db.SelectContext(ctx, &memberships, query, leaseID); err != nil {
		return nil, fmt.Errorf("get memberships with tenants: %w", err)
	}

	return memberships, nil
}

func (r *repository) GetMembership(
	ctx context.Context,
	leaseID, tenantID string,
) (*Membership, error) {
	query := `
		SELECT id, lease_id, tenant_id, confirmed, created_at
		FROM lease_tenants
		WHERE lease_id = $1 AND tenant_id = $2`

	var membership Membership
	err := r.db.GetContext(ctx, &membership, query, leaseID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return &membership, nil
}

func (r *repository) AddMembership(
	ctx context.Context,
	membership *Membership,
) error {
	query := `
		INSERT INTO lease_tenants (id, lease_id, tenant_id, confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &membership.CreatedAt, query,
		membership.ID,
		membership.LeaseID,
		membership.TenantID,
		membership.Confirmed,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("add membership: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("add membership: %w", err)
	}

	return nil
}

func (r *repository) SetConfirmed(
	ctx context.Context,
	leaseID, tenantID string,
	confirmed bool,
) error {
	query := `
		UPDATE lease_tenants
		SET confirmed = $3
		WHERE lease_id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, leaseID, tenantID, confirmed)
	if err != nil {
		return fmt.Errorf("set membership confirmed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set membership confirmed: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set membership confirmed: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteMembership(
	ctx context.Context,
	leaseID, tenantID string,
) error {
	query := `
		DELETE FROM lease_tenants
		WHERE lease_id = $1 AND tenant_id = $2`

	result, err := r.db.ExecContext(ctx, query, leaseID, tenantID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete membership: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteMembershipsByLease(
	ctx context.Context,
	leaseID string,
) error {
	query := `DELETE FROM lease_tenants WHERE lease_id = $1`

	if _, err := r.db.ExecContext(ctx, query, leaseID); err != nil {
		return fmt.Errorf("delete lease memberships: %w", err)
	}

	return nil
}

func (r *repository) ListByLandlord(
	ctx context.Context,
	landlordID string,
) ([]Lease, error) {
	query := `
		SELECT l.id, l.property_id, l.start_date, l.end_date,
		       l.monthly_rent_cents, l.status, l.created_at, l.updated_at
		FROM leases l
		JOIN properties p ON p.id = l.property_id
		WHERE p.landlord_id = $1
		ORDER BY l.created_at DESC`

	var leases []Lease
	if err := r.db.SelectContext(ctx, &leases, query, landlordID); err != nil {
		return nil, fmt.Errorf("list leases by landlord: %w", err)
	}

	return leases, nil
}

func (r *repository) ListByTenant(
	ctx context.Context,
	tenantID string,
) ([]Lease, error) {
	query := `
		SELECT l.id, l.property_id, l.start_date, l.end_date,
		       l.monthly_rent_cents, l.status, l.created_at, l.updated_at
		FROM leases l
		JOIN lease_tenants lt ON lt.lease_id = l.id
		WHERE lt.tenant_id = $1
		ORDER BY l.created_at DESC`

	var leases []Lease
	if err := r.db.SelectContext(ctx, &leases, query, tenantID); err != nil {
		return nil, fmt.Errorf("list leases by tenant: %w", err)
	}

	return leases, nil
}
