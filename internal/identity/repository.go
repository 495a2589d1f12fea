// AngelaMos | 2026
// repository.go

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/leasehub/backend/internal/core"
)

type Repository interface {
	CreateUserWithRole(ctx context.Context, user *User, role string) (string, error)
	CreateRole(ctx context.Context, userID, role string) (string, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	RoleID(ctx context.Context, userID, role string) (string, error)
	TenantProfileByID(ctx context.Context, tenantID string) (*TenantProfile, error)
	LandlordProfileByID(ctx context.Context, landlordID string) (*LandlordProfile, error)
	TenantVisibleToLandlord(
		ctx context.Context,
		tenantID, leaseID, landlordID string,
	) (bool, error)
	TenantSharesLease(
		ctx context.Context,
		viewerTenantID, tenantID, leaseID string,
	) (bool, error)
	LandlordVisibleToTenant(
		ctx context.Context,
		landlordID, propertyID, tenantID string,
	) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func roleTable(role string) (string, error) {
	switch role {
	case core.RoleLandlord:
		return "landlords", nil
	case core.RoleTenant:
		return "tenants", nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", role, core.ErrInvalidInput)
	}
}

// CreateUserWithRole inserts the user and its role row in one transaction, so
// a registered account always has the landlord or tenant record it claims.
func (r *repository) CreateUserWithRole(
	ctx context.Context,
	user *User,
	role string,
) (string, error) {
	var roleID string

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (
				id, email, password_hash, first_name, last_name, phone
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at, token_version`

		err := tx.QueryRowxContext(ctx, query,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Phone,
		).Scan(&user.CreatedAt, &user.UpdatedAt, &user.TokenVersion)
		if err != nil {
			if core.IsDuplicateKey(err) {
				return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create user: %w", err)
		}

		roleID, err = insertRole(ctx, tx, user.ID, role)
		return err
	})
	if err != nil {
		return "", err
	}

	return roleID, nil
}

func (r *repository) CreateRole(
	ctx context.Context,
	userID, role string,
) (string, error) {
	return insertRole(ctx, r.db, userID, role)
}

func insertRole(
	ctx context.Context,
	db core.DBTX,
	userID, role string,
) (string, error) {
	table, err := roleTable(role)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, user_id)
		 VALUES (gen_random_uuid(), $1)
		 RETURNING id`,
		table,
	)

	var roleID string
	if err := db.GetContext(ctx, &roleID, query, userID); err != nil {
		if core.IsDuplicateKey(err) {
			return "", fmt.Errorf("create %s: %w", role, core.ErrDuplicateKey)
		}
		return "", fmt.Errorf("create %s: %w", role, err)
	}

	return roleID, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, phone,
		       token_version, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, phone,
		       token_version, created_at, updated_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) RoleID(
	ctx context.Context,
	userID, role string,
) (string, error) {
	table, err := roleTable(role)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = $1`, table)

	var roleID string
	err = r.db.GetContext(ctx, &roleID, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get %s for user: %w", role, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get %s for user: %w", role, err)
	}

	return roleID, nil
}

func (r *repository) TenantProfileByID(
	ctx context.Context,
	tenantID string,
) (*TenantProfile, error) {
	query := `
		SELECT t.id, t.user_id, u.email, u.first_name, u.last_name, u.phone
		FROM tenants t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1`

	var profile TenantProfile
	err := r.db.GetContext(ctx, &profile, query, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tenant profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant profile: %w", err)
	}

	return &profile, nil
}

func (r *repository) LandlordProfileByID(
	ctx context.Context,
	landlordID string,
) (*LandlordProfile, error) {
	query := `
		SELECT l.id, l.user_id, u.email, u.first_name, u.last_name, u.phone
		FROM landlords l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1`

	var profile LandlordProfile
	err := r.db.GetContext(ctx, &profile, query, landlordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get landlord profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get landlord profile: %w", err)
	}

	return &profile, nil
}

// TenantVisibleToLandlord reports whether tenantID is a member of leaseID and
// that lease belongs to a property owned by landlordID.
func (r *repository) TenantVisibleToLandlord(
	ctx context.Context,
	tenantID, leaseID, landlordID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM lease_tenants lt
			JOIN leases l ON l.id = lt.lease_id
			JOIN properties p ON p.id = l.property_id
			WHERE lt.tenant_id = $1
				AND lt.lease_id = $2
				AND p.landlord_id = $3
		)`

	var visible bool
	err := r.db.GetContext(ctx, &visible, query, tenantID, leaseID, landlordID)
	if err != nil {
		return false, fmt.Errorf("check tenant visibility: %w", err)
	}

	return visible, nil
}

// TenantSharesLease reports whether both tenants are members of leaseID.
func (r *repository) TenantSharesLease(
	ctx context.Context,
	viewerTenantID, tenantID, leaseID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM lease_tenants a
			JOIN lease_tenants b ON b.lease_id = a.lease_id
			WHERE a.lease_id = $3
				AND a.tenant_id = $1
				AND b.tenant_id = $2
		)`

	var shares bool
	err := r.db.GetContext(
		ctx,
		&shares,
		query,
		viewerTenantID,
		tenantID,
		leaseID,
	)
	if err != nil {
		return false, fmt.Errorf("check shared lease: %w", err)
	}

	return shares, nil
}

// LandlordVisibleToTenant reports whether propertyID is owned by landlordID
// and tenantID holds a lease membership on that property.
func (r *repository) LandlordVisibleToTenant(
	ctx context.Context,
	landlordID, propertyID, tenantID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM properties p
			JOIN leases l ON l.property_id = p.id
			JOIN lease_tenants lt ON lt.lease_id = l.id
			WHERE p.id = $2
				AND p.landlord_id = $1
				AND lt.tenant_id = $3
		)`

	var visible bool
	err := r.db.GetContext(
		ctx,
		&visible,
		query,
		landlordID,
		propertyID,
		tenantID,
	)
	if err != nil {
		return false, fmt.Errorf("check landlord visibility: %w", err)
	}

	return visible, nil
}
