// AngelaMos | 2026
// service_test.go

package property

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leasehub/backend/internal/core"
)

type fakeRepo struct {
	properties   map[string]*Property
	tenantLeases map[string]map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		properties:   make(map[string]*Property),
		tenantLeases: make(map[string]map[string]bool),
	}
}

func (f *fakeRepo) grantTenantLease(propertyID, tenantID string) {
	if f.tenantLeases[propertyID] == nil {
		f.tenantLeases[propertyID] = make(map[string]bool)
	}
	f.tenantLeases[propertyID][tenantID] = true
}

func (f *fakeRepo) Create(ctx context.Context, property *Property) error {
	copied := *property
	f.properties[property.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Property, error) {
	property, ok := f.properties[id]
	if !ok {
		return nil, fmt.Errorf("get property: %w", core.ErrNotFound)
	}
	copied := *property
	return &copied, nil
}

func (f *fakeRepo) Update(ctx context.Context, property *Property) error {
	if _, ok := f.properties[property.ID]; !ok {
		return fmt.Errorf("update property: %w", core.ErrNotFound)
	}
	copied := *property
	f.properties[property.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.properties[id]; !ok {
		return fmt.Errorf("delete property: %w", core.ErrNotFound)
	}
	delete(f.properties, id)
	return nil
}

func (f *fakeRepo) ListByLandlord(
	ctx context.Context,
	landlordID string,
	limit, offset int,
) ([]Property, error) {
	var all []Property
	for _, p := range f.properties {
		if p.LandlordID == landlordID {
			all = append(all, *p)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRepo) CountByLandlord(ctx context.Context, landlordID string) (int, error) {
	total := 0
	for _, p := range f.properties {
		if p.LandlordID == landlordID {
			total++
		}
	}
	return total, nil
}

func (f *fakeRepo) OwnedBy(ctx context.Context, propertyID, landlordID string) (bool, error) {
	p, ok := f.properties[propertyID]
	return ok && p.LandlordID == landlordID, nil
}

func (f *fakeRepo) HasTenantLease(ctx context.Context, propertyID, tenantID string) (bool, error) {
	return f.tenantLeases[propertyID][tenantID], nil
}

var _ Repository = (*fakeRepo)(nil)

func landlordActor(roleID string) core.Actor {
	return core.Actor{UserID: "u-" + roleID, Role: core.RoleLandlord, RoleID: roleID}
}

func tenantActor(roleID string) core.Actor {
	return core.Actor{UserID: "u-" + roleID, Role: core.RoleTenant, RoleID: roleID}
}

func validCreateRequest() CreatePropertyRequest {
	return CreatePropertyRequest{
		AddressLine1: "100 Main St",
		City:         "Austin",
		State:        "tx",
		Zip:          "78701",
		SquareFeet:   1200,
		Bedrooms:     2,
		Bathrooms:    1.5,
	}
}

func TestCreatePropertyNormalizesFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	property, err := svc.CreateProperty(
		context.Background(),
		landlordActor("ll-1"),
		validCreateRequest(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if property.LandlordID != "ll-1" {
		t.Fatalf("expected owner taken from actor, got %s", property.LandlordID)
	}
	if property.State != "TX" {
		t.Fatalf("expected state uppercased, got %s", property.State)
	}
	if property.BathroomsTenths != 15 {
		t.Fatalf("expected 1.5 baths stored as 15 tenths, got %d", property.BathroomsTenths)
	}
	if property.Bathrooms() != 1.5 {
		t.Fatalf("expected 1.5 baths round-tripped, got %v", property.Bathrooms())
	}
}

func TestCreatePropertyRejectsNonLandlord(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateProperty(
		context.Background(),
		tenantActor("t-1"),
		validCreateRequest(),
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestBathroomsHalfStepValidation(t *testing.T) {
	cases := []struct {
		bathrooms float64
		tenths    int
		ok        bool
	}{
		{0, 0, true},
		{1, 10, true},
		{1.5, 15, true},
		{2.5, 25, true},
		{1.25, 0, false},
		{1.7, 0, false},
		{0.1, 0, false},
	}

	for _, tc := range cases {
		tenths, err := bathroomsToTenths(tc.bathrooms)
		if tc.ok {
			if err != nil {
				t.Fatalf("%v baths: unexpected error: %v", tc.bathrooms, err)
			}
			if tenths != tc.tenths {
				t.Fatalf("%v baths: expected %d tenths, got %d", tc.bathrooms, tc.tenths, tenths)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%v baths: expected rejection", tc.bathrooms)
		}
	}
}

func TestUpdatePropertyAppliesPartialChanges(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.CreateProperty(
		context.Background(), landlordActor("ll-1"), validCreateRequest(),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newCity := "Dallas"
	newBaths := 2.0
	updated, err := svc.UpdateProperty(
		context.Background(), landlordActor("ll-1"), created.ID,
		UpdatePropertyRequest{City: &newCity, Bathrooms: &newBaths},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.City != "Dallas" {
		t.Fatalf("expected city updated, got %s", updated.City)
	}
	if updated.BathroomsTenths != 20 {
		t.Fatalf("expected bathrooms updated to 20 tenths, got %d", updated.BathroomsTenths)
	}
	if updated.AddressLine1 != created.AddressLine1 {
		t.Fatalf("expected untouched fields preserved")
	}
}

func TestOwnershipDeniesUniformly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, _ := svc.CreateProperty(
		context.Background(), landlordActor("ll-1"), validCreateRequest(),
	)

	city := "Houston"

	// Someone else's property and a missing property produce the same error.
	for name, propertyID := range map[string]string{
		"other landlord's": created.ID,
		"missing":          "prop-missing",
	} {
		if _, err := svc.UpdateProperty(
			context.Background(), landlordActor("ll-2"), propertyID,
			UpdatePropertyRequest{City: &city},
		); !errors.Is(err, core.ErrForbidden) {
			t.Fatalf("update %s: expected forbidden, got %v", name, err)
		}

		if err := svc.DeleteProperty(
			context.Background(), landlordActor("ll-2"), propertyID,
		); !errors.Is(err, core.ErrForbidden) {
			t.Fatalf("delete %s: expected forbidden, got %v", name, err)
		}
	}
}

func TestGetPropertyVisibility(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, _ := svc.CreateProperty(
		context.Background(), landlordActor("ll-1"), validCreateRequest(),
	)
	repo.grantTenantLease(created.ID, "t-member")

	if _, err := svc.GetProperty(context.Background(), landlordActor("ll-1"), created.ID); err != nil {
		t.Fatalf("owner should see property: %v", err)
	}
	if _, err := svc.GetProperty(context.Background(), tenantActor("t-member"), created.ID); err != nil {
		t.Fatalf("tenant on a lease should see property: %v", err)
	}
	if _, err := svc.GetProperty(context.Background(), landlordActor("ll-2"), created.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for other landlord, got %v", err)
	}
	if _, err := svc.GetProperty(context.Background(), tenantActor("t-other"), created.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for unrelated tenant, got %v", err)
	}
}

func TestListMineScopesToActor(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.CreateProperty(
		context.Background(), landlordActor("ll-1"), validCreateRequest(),
	); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateProperty(
		context.Background(), landlordActor("ll-2"), validCreateRequest(),
	); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mine, total, err := svc.ListMine(context.Background(), landlordActor("ll-1"), 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || total != 1 {
		t.Fatalf("expected 1 property (total 1), got %d (total %d)", len(mine), total)
	}

	if _, _, err := svc.ListMine(context.Background(), tenantActor("t-1"), 1, 20); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for tenant, got %v", err)
	}
}

func TestListMinePagesResults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	for range 5 {
		if _, err := svc.CreateProperty(
			context.Background(), landlordActor("ll-1"), validCreateRequest(),
		); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	firstPage, total, err := svc.ListMine(context.Background(), landlordActor("ll-1"), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(firstPage) != 2 || total != 5 {
		t.Fatalf("expected page of 2 with total 5, got %d (total %d)", len(firstPage), total)
	}

	lastPage, total, err := svc.ListMine(context.Background(), landlordActor("ll-1"), 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lastPage) != 1 || total != 5 {
		t.Fatalf("expected final page of 1 with total 5, got %d (total %d)", len(lastPage), total)
	}

	// A page past the end is empty, not an error, and the total still counts.
	empty, total, err := svc.ListMine(context.Background(), landlordActor("ll-1"), 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 || total != 5 {
		t.Fatalf("expected empty page with total 5, got %d (total %d)", len(empty), total)
	}
}
