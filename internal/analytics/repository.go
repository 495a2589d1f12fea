// AngelaMos | 2026
// repository.go

package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/leasehub/backend/internal/core"
)

type Repository interface {
	Totals(ctx context.Context, landlordID string) (*Totals, error)
	Filtered(
		ctx context.Context,
		landlordID string,
		filters Filters,
	) (*Filtered, error)
	PropertyRows(
		ctx context.Context,
		landlordID string,
		filters Filters,
	) ([]PropertyRow, error)
	FilterOptions(
		ctx context.Context,
		landlordID string,
	) (*FilterOptions, error)
	SystemCounts(ctx context.Context) (*SystemCounts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// effectiveLeaseCTE picks at most one qualifying lease per property: the
// active one if present, otherwise the most recently created one. rent_cents
// is the qualifying lease's rent regardless of status; active_rent_cents
// only counts it when the lease is active, which is what the sums use.
const effectiveLeaseCTE = `
	SELECT p.id, p.city, p.state,
	       COALESCE(l.status, 'no lease') AS effective_status,
	       COALESCE(l.monthly_rent_cents, 0) AS rent_cents,
	       CASE WHEN l.status = 'active'
	            THEN l.monthly_rent_cents ELSE 0 END AS active_rent_cents
	FROM properties p
	LEFT JOIN LATERAL (
		SELECT status, monthly_rent_cents
		FROM leases
		WHERE property_id = p.id
		ORDER BY (status = 'active') DESC, created_at DESC
		LIMIT 1
	) l ON true
	WHERE p.landlord_id = $1`

func (r *repository) Totals(
	ctx context.Context,
	landlordID string,
) (*Totals, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) AS total_properties,
		       COUNT(*) FILTER (
		           WHERE effective_status = 'active'
		       ) AS active_leases,
		       COALESCE(SUM(active_rent_cents), 0) AS active_rent_cents
		FROM (%s) q`, effectiveLeaseCTE)

	var totals Totals
	if err := r.db.GetContext(ctx, &totals, query, landlordID); err != nil {
		return nil, fmt.Errorf("analytics totals: %w", err)
	}

	return &totals, nil
}

// filterClause renders the optional filters as a WHERE clause over the
// effective-lease subquery, placeholders numbered after the landlord arg.
func filterClause(landlordID string, filters Filters) (string, []any) {
	conditions := []string{}
	args := []any{landlordID}
	argIdx := 2

	if filters.City != "" {
		conditions = append(conditions, fmt.Sprintf("q.city = $%d", argIdx))
		args = append(args, filters.City)
		argIdx++
	}

	if filters.State != "" {
		conditions = append(conditions, fmt.Sprintf("q.state = $%d", argIdx))
		args = append(args, filters.State)
		argIdx++
	}

	if filters.Status != "" {
		conditions = append(
			conditions,
			fmt.Sprintf("q.effective_status = $%d", argIdx),
		)
		args = append(args, filters.Status)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *repository) Filtered(
	ctx context.Context,
	landlordID string,
	filters Filters,
) (*Filtered, error) {
	whereClause, args := filterClause(landlordID, filters)

	query := fmt.Sprintf(`
		SELECT COUNT(*) AS count,
		       COALESCE(SUM(q.active_rent_cents), 0) AS active_rent_cents
		FROM (%s) q
		%s`, effectiveLeaseCTE, whereClause)

	var filtered Filtered
	if err := r.db.GetContext(ctx, &filtered, query, args...); err != nil {
		return nil, fmt.Errorf("analytics filtered: %w", err)
	}

	return &filtered, nil
}

func (r *repository) PropertyRows(
	ctx context.Context,
	landlordID string,
	filters Filters,
) ([]PropertyRow, error) {
	whereClause, args := filterClause(landlordID, filters)

	query := fmt.Sprintf(`
		SELECT q.id, q.city, q.state, q.effective_status, q.rent_cents
		FROM (%s) q
		%s
		ORDER BY q.city, q.state, q.id`, effectiveLeaseCTE, whereClause)

	var rows []PropertyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("analytics property rows: %w", err)
	}

	return rows, nil
}

func (r *repository) FilterOptions(
	ctx context.Context,
	landlordID string,
) (*FilterOptions, error) {
	options := &FilterOptions{}

	citiesQuery := `
		SELECT DISTINCT city FROM properties
		WHERE landlord_id = $1
		ORDER BY city`
	if err := r.db.SelectContext(ctx, &options.Cities, citiesQuery, landlordID); err != nil {
		return nil, fmt.Errorf("analytics cities: %w", err)
	}

	statesQuery := `
		SELECT DISTINCT state FROM properties
		WHERE landlord_id = $1
		ORDER BY state`
	if err := r.db.SelectContext(ctx, &options.States, statesQuery, landlordID); err != nil {
		return nil, fmt.Errorf("analytics states: %w", err)
	}

	statusesQuery := fmt.Sprintf(`
		SELECT DISTINCT effective_status FROM (%s) q
		ORDER BY effective_status`, effectiveLeaseCTE)
	if err := r.db.SelectContext(ctx, &options.Statuses, statusesQuery, landlordID); err != nil {
		return nil, fmt.Errorf("analytics statuses: %w", err)
	}

	return options, nil
}

func (r *repository) SystemCounts(ctx context.Context) (*SystemCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM landlords) AS landlords,
			(SELECT COUNT(*) FROM tenants) AS tenants,
			(SELECT COUNT(*) FROM properties) AS properties,
			(SELECT COUNT(*) FROM leases) AS leases,
			(SELECT COUNT(*) FROM lease_tenants) AS memberships`

	var counts SystemCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("system counts: %w", err)
	}

	return &counts, nil
}
