// AngelaMos | 2026
// service_test.go

package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leasehub/backend/internal/core"
)

type fakeProperty struct {
	city            string
	state           string
	effectiveStatus string
	rentCents       int64
}

// fakeRepo computes aggregates over a static property list using the same
// effective-lease semantics as the SQL: at most one lease counts per
// property, rentCents is that lease's rent, and only an active lease
// contributes rent to the sums.
type fakeRepo struct {
	byLandlord map[string][]fakeProperty
}

func (f *fakeRepo) Totals(ctx context.Context, landlordID string) (*Totals, error) {
	totals := &Totals{}
	for _, p := range f.byLandlord[landlordID] {
		totals.TotalProperties++
		if p.effectiveStatus == "active" {
			totals.ActiveLeases++
			totals.ActiveRentCents += p.rentCents
		}
	}
	return totals, nil
}

func (f *fakeRepo) Filtered(
	ctx context.Context,
	landlordID string,
	filters Filters,
) (*Filtered, error) {
	filtered := &Filtered{}
	for _, p := range f.byLandlord[landlordID] {
		if filters.City != "" && p.city != filters.City {
			continue
		}
		if filters.State != "" && p.state != filters.State {
			continue
		}
		if filters.Status != "" && p.effectiveStatus != filters.Status {
			continue
		}
		filtered.Count++
		if p.effectiveStatus == "active" {
			filtered.ActiveRentCents += p.rentCents
		}
	}
	return filtered, nil
}

func (f *fakeRepo) PropertyRows(
	ctx context.Context,
	landlordID string,
	filters Filters,
) ([]PropertyRow, error) {
	var rows []PropertyRow
	for i, p := range f.byLandlord[landlordID] {
		if filters.City != "" && p.city != filters.City {
			continue
		}
		if filters.State != "" && p.state != filters.State {
			continue
		}
		if filters.Status != "" && p.effectiveStatus != filters.Status {
			continue
		}
		rows = append(rows, PropertyRow{
			PropertyID:       fmt.Sprintf("prop-%d", i),
			City:             p.city,
			State:            p.state,
			EffectiveStatus:  p.effectiveStatus,
			MonthlyRentCents: p.rentCents,
		})
	}
	return rows, nil
}

func (f *fakeRepo) FilterOptions(
	ctx context.Context,
	landlordID string,
) (*FilterOptions, error) {
	return &FilterOptions{}, nil
}

func (f *fakeRepo) SystemCounts(ctx context.Context) (*SystemCounts, error) {
	return &SystemCounts{}, nil
}

var _ Repository = (*fakeRepo)(nil)

func portfolioRepo() *fakeRepo {
	return &fakeRepo{
		byLandlord: map[string][]fakeProperty{
			"ll-1": {
				{city: "Austin", state: "TX", effectiveStatus: "active", rentCents: 200000},
				{city: "Austin", state: "TX", effectiveStatus: "inactive", rentCents: 150000},
				{city: "Dallas", state: "TX", effectiveStatus: "active", rentCents: 100000},
				{city: "Tulsa", state: "OK", effectiveStatus: StatusNoLease},
			},
		},
	}
}

func TestReportRequiresLandlord(t *testing.T) {
	svc := NewService(portfolioRepo())

	actor := core.Actor{UserID: "u-1", Role: core.RoleTenant, RoleID: "t-1"}
	if _, err := svc.Report(context.Background(), actor, Filters{}); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected forbidden for tenant, got %v", err)
	}
}

func TestReportTotalsAndAverage(t *testing.T) {
	svc := NewService(portfolioRepo())
	actor := core.Actor{UserID: "u-1", Role: core.RoleLandlord, RoleID: "ll-1"}

	report, err := svc.Report(context.Background(), actor, Filters{State: "TX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Totals.TotalProperties != 4 {
		t.Fatalf("expected 4 total properties, got %d", report.Totals.TotalProperties)
	}
	if report.Totals.ActiveLeases != 2 {
		t.Fatalf("expected 2 active leases, got %d", report.Totals.ActiveLeases)
	}
	if report.Totals.ActiveRentCents != 300000 {
		t.Fatalf("expected 300000 active rent, got %d", report.Totals.ActiveRentCents)
	}

	// Three TX properties, 300000 cents of active rent: the inactive one
	// dilutes the average.
	if report.Filtered.Count != 3 {
		t.Fatalf("expected 3 filtered properties, got %d", report.Filtered.Count)
	}
	if report.Filtered.AverageRentCents != 100000 {
		t.Fatalf("expected average of 100000, got %v", report.Filtered.AverageRentCents)
	}
}

func TestReportBreakdownShowsInactiveRent(t *testing.T) {
	svc := NewService(portfolioRepo())
	actor := core.Actor{UserID: "u-1", Role: core.RoleLandlord, RoleID: "ll-1"}

	report, err := svc.Report(context.Background(), actor, Filters{Status: "inactive"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Properties) != 1 {
		t.Fatalf("expected 1 inactive property, got %d", len(report.Properties))
	}

	// The row shows the lease's rent even though the lease is inactive; the
	// aggregates still exclude it.
	if report.Properties[0].MonthlyRentCents != 150000 {
		t.Fatalf("expected inactive lease rent 150000 in breakdown, got %d",
			report.Properties[0].MonthlyRentCents)
	}
	if report.Filtered.ActiveRentCents != 0 || report.Filtered.AverageRentCents != 0 {
		t.Fatalf("expected inactive rent excluded from aggregates, got sum %d avg %v",
			report.Filtered.ActiveRentCents, report.Filtered.AverageRentCents)
	}
}

func TestReportNoLeaseFilter(t *testing.T) {
	svc := NewService(portfolioRepo())
	actor := core.Actor{UserID: "u-1", Role: core.RoleLandlord, RoleID: "ll-1"}

	report, err := svc.Report(context.Background(), actor, Filters{Status: StatusNoLease})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Filtered.Count != 1 {
		t.Fatalf("expected 1 property without a lease, got %d", report.Filtered.Count)
	}
	if report.Filtered.AverageRentCents != 0 {
		t.Fatalf("expected zero average, got %v", report.Filtered.AverageRentCents)
	}
	if len(report.Properties) != 1 || report.Properties[0].EffectiveStatus != StatusNoLease {
		t.Fatalf("expected breakdown limited to the unleased property, got %v", report.Properties)
	}
}

func TestReportEmptyFilterSet(t *testing.T) {
	svc := NewService(portfolioRepo())
	actor := core.Actor{UserID: "u-1", Role: core.RoleLandlord, RoleID: "ll-1"}

	report, err := svc.Report(context.Background(), actor, Filters{City: "Nowhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Filtered.Count != 0 {
		t.Fatalf("expected empty filtered set, got %d", report.Filtered.Count)
	}
	if report.Filtered.AverageRentCents != 0 {
		t.Fatalf("average over zero properties must be zero, got %v", report.Filtered.AverageRentCents)
	}
}
