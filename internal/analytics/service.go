// AngelaMos | 2026
// service.go

package analytics

import (
	"context"

	"github.com/leasehub/backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Report builds the landlord dashboard: unfiltered totals over the whole
// portfolio, aggregates over the filtered subset, and the observed values
// for populating filter dropdowns.
func (s *Service) Report(
	ctx context.Context,
	actor core.Actor,
	filters Filters,
) (*Report, error) {
	if !actor.IsLandlord() {
		return nil, core.ForbiddenError("")
	}

	totals, err := s.repo.Totals(ctx, actor.RoleID)
	if err != nil {
		return nil, err
	}

	filtered, err := s.repo.Filtered(ctx, actor.RoleID, filters)
	if err != nil {
		return nil, err
	}

	// Properties without an active lease count in the denominator but
	// contribute nothing to the rent sum.
	if filtered.Count > 0 {
		filtered.AverageRentCents = float64(filtered.ActiveRentCents) /
			float64(filtered.Count)
	}

	rows, err := s.repo.PropertyRows(ctx, actor.RoleID, filters)
	if err != nil {
		return nil, err
	}

	options, err := s.repo.FilterOptions(ctx, actor.RoleID)
	if err != nil {
		return nil, err
	}

	return &Report{
		Totals:     *totals,
		Filtered:   *filtered,
		Properties: rows,
		Options:    *options,
	}, nil
}

func (s *Service) SystemCounts(ctx context.Context) (*SystemCounts, error) {
	return s.repo.SystemCounts(ctx)
}
