// AngelaMos | 2026
// repository.go

package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leasehub/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, property *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id string) error
	ListByLandlord(
		ctx context.Context,
		landlordID string,
		limit, offset int,
	) ([]Property, error)
	CountByLandlord(ctx context.Context, landlordID string) (int, error)
	OwnedBy(ctx context.Context, propertyID, landlordID string) (bool, error)
	HasTenantLease(ctx context.Context, propertyID, tenantID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, property *Property) error {
	query := `
		INSERT INTO properties (
			id, landlord_id, address_line1, address_line2, city, state, zip,
			square_feet, bedrooms, bathrooms_tenths
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, property, query,
		property.ID,
		property.LandlordID,
		property.AddressLine1,
		property.AddressLine2,
		property.City,
		property.State,
		property.Zip,
		property.SquareFeet,
		property.Bedrooms,
		property.BathroomsTenths,
	)
	if err != nil {
		return fmt.Errorf("create property: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Property, error) {
	query := `
		SELECT id, landlord_id, address_line1, address_line2, city, state, zip,
		       square_feet, bedrooms, bathrooms_tenths, created_at, updated_at
		FROM properties
		WHERE id = $1`

	var property Property
	err := r.db.GetContext(ctx, &property, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get property: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}

	return &property, nil
}

func (r *repository) Update(ctx context.Context, property *Property) error {
	query := `
		UPDATE properties
		SET address_line1 = $2, address_line2 = $3, city = $4, state = $5,
		    zip = $6, square_feet = $7, bedrooms = $8, bathrooms_tenths = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &property.UpdatedAt, query,
		property.ID,
		property.AddressLine1,
		property.AddressLine2,
		property.City,
		property.State,
		property.Zip,
		property.SquareFeet,
		property.Bedrooms,
		property.BathroomsTenths,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update property: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}

	return nil
}

// Delete removes a property; leases and their memberships go with it via
// ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM properties WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete property: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByLandlord(
	ctx context.Context,
	landlordID string,
	limit, offset int,
) ([]Property, error) {
	query := `
		SELECT id, landlord_id, address_line1, address_line2, city, state, zip,
		       square_feet, bedrooms, bathrooms_tenths, created_at, updated_at
		FROM properties
		WHERE landlord_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var properties []Property
	err := r.db.SelectContext(ctx, &properties, query, landlordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	return properties, nil
}

func (r *repository) CountByLandlord(
	ctx context.Context,
	landlordID string,
) (int, error) {
	query := `SELECT COUNT(*) FROM properties WHERE landlord_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, query, landlordID); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}

	return total, nil
}

func (r *repository) OwnedBy(
	ctx context.Context,
	propertyID, landlordID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM properties WHERE id = $1 AND landlord_id = $2
		)`

	var owned bool
	err := r.db.GetContext(ctx, &owned, query, propertyID, landlordID)
	if err != nil {
		return false, fmt.Errorf("check property ownership: %w", err)
	}

	return owned, nil
}

// HasTenantLease reports whether the tenant holds a membership on any lease
// of the property.
func (r *repository) HasTenantLease(
	ctx context.Context,
	propertyID, tenantID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM leases l
			JOIN lease_tenants lt ON lt.lease_id = l.id
			WHERE l.property_id = $1 AND lt.tenant_id = $2
		)`

	var has bool
	err := r.db.GetContext(ctx, &has, query, propertyID, tenantID)
	if err != nil {
		return false, fmt.Errorf("check tenant lease on property: %w", err)
	}

	return has, nil
}
