// AngelaMos | 2026
// service.go

package property

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/leasehub/backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// bathroomsToTenths converts a bathroom count to stored tenths, rejecting
// anything finer than half-bath granularity.
func bathroomsToTenths(bathrooms float64) (int, error) {
	scaled := bathrooms * 10
	tenths := int(math.Round(scaled))

	if math.Abs(scaled-float64(tenths)) > 1e-9 || tenths%5 != 0 {
		return 0, core.BadRequestError(
			"bathrooms must be in half-bath increments",
		)
	}

	return tenths, nil
}

func (s *Service) CreateProperty(
	ctx context.Context,
	actor core.Actor,
	req CreatePropertyRequest,
) (*Property, error) {
	if !actor.IsLandlord() {
		return nil, core.ForbiddenError("")
	}

	tenths, err := bathroomsToTenths(req.Bathrooms)
	if err != nil {
		return nil, err
	}

	property := &Property{
		ID:              uuid.New().String(),
		LandlordID:      actor.RoleID,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		State:           strings.ToUpper(req.State),
		Zip:             req.Zip,
		SquareFeet:      req.SquareFeet,
		Bedrooms:        req.Bedrooms,
		BathroomsTenths: tenths,
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, err
	}

	return property, nil
}

// requireOwnership denies uniformly: a property that does not exist and a
// property owned by someone else are indistinguishable to the caller.
func (s *Service) requireOwnership(
	ctx context.Context,
	actor core.Actor,
	propertyID string,
) error {
	if !actor.IsLandlord() {
		return core.ForbiddenError("")
	}

	owned, err := s.repo.OwnedBy(ctx, propertyID, actor.RoleID)
	if err != nil {
		return err
	}

	if !owned {
		return core.ForbiddenError("")
	}

	return nil
}

func (s *Service) GetProperty(
	ctx context.Context,
	actor core.Actor,
	propertyID string,
) (*Property, error) {
	allowed := false

	switch {
	case actor.IsLandlord():
		owned, err := s.repo.OwnedBy(ctx, propertyID, actor.RoleID)
		if err != nil {
			return nil, err
		}
		allowed = owned

	case actor.IsTenant():
		has, err := s.repo.HasTenantLease(ctx, propertyID, actor.RoleID)
		if err != nil {
			return nil, err
		}
		allowed = has
	}

	if !allowed {
		return nil, core.ForbiddenError("")
	}

	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ForbiddenError("")
		}
		return nil, err
	}

	return property, nil
}

func (s *Service) UpdateProperty(
	ctx context.Context,
	actor core.Actor,
	propertyID string,
	req UpdatePropertyRequest,
) (*Property, error) {
	if err := s.requireOwnership(ctx, actor, propertyID); err != nil {
		return nil, err
	}

	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if req.AddressLine1 != nil {
		property.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		property.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = strings.ToUpper(*req.State)
	}
	if req.Zip != nil {
		property.Zip = *req.Zip
	}
	if req.SquareFeet != nil {
		property.SquareFeet = *req.SquareFeet
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		tenths, err := bathroomsToTenths(*req.Bathrooms)
		if err != nil {
			return nil, err
		}
		property.BathroomsTenths = tenths
	}

	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}

	return property, nil
}

func (s *Service) DeleteProperty(
	ctx context.Context,
	actor core.Actor,
	propertyID string,
) error {
	if err := s.requireOwnership(ctx, actor, propertyID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, propertyID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ForbiddenError("")
		}
		return fmt.Errorf("delete property: %w", err)
	}

	return nil
}

// ListMine returns one page of the landlord's properties plus the total
// count, so the handler can report paging metadata.
func (s *Service) ListMine(
	ctx context.Context,
	actor core.Actor,
	page, perPage int,
) ([]Property, int, error) {
	if !actor.IsLandlord() {
		return nil, 0, core.ForbiddenError("")
	}

	total, err := s.repo.CountByLandlord(ctx, actor.RoleID)
	if err != nil {
		return nil, 0, err
	}

	properties, err := s.repo.ListByLandlord(
		ctx,
		actor.RoleID,
		perPage,
		(page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}
