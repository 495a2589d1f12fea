// AngelaMos | 2026
// dto.go

package analytics

// Filters narrows the landlord's property set for the filtered aggregates.
// Status is an effective lease status: active, inactive, or "no lease".
type Filters struct {
	City   string
	State  string
	Status string
}

const StatusNoLease = "no lease"

type Totals struct {
	TotalProperties int   `db:"total_properties" json:"total_properties"`
	ActiveLeases    int   `db:"active_leases"    json:"active_leases"`
	ActiveRentCents int64 `db:"active_rent_cents" json:"active_rent_cents"`
}

type Filtered struct {
	Count           int   `db:"count"             json:"count"`
	ActiveRentCents int64 `db:"active_rent_cents" json:"-"`

	// AverageRentCents spreads the filtered set's active rents over every
	// filtered property, including those without an active lease.
	AverageRentCents float64 `json:"average_rent_cents"`
}

type FilterOptions struct {
	Cities   []string `json:"cities"`
	States   []string `json:"states"`
	Statuses []string `json:"statuses"`
}

// PropertyRow is one property in the filtered breakdown, carrying its
// effective lease status and that lease's rent. The rent shows even for an
// inactive lease; only the aggregates restrict themselves to active ones.
type PropertyRow struct {
	PropertyID       string `db:"id"               json:"property_id"`
	City             string `db:"city"             json:"city"`
	State            string `db:"state"            json:"state"`
	EffectiveStatus  string `db:"effective_status" json:"effective_status"`
	MonthlyRentCents int64  `db:"rent_cents"       json:"monthly_rent_cents"`
}

type Report struct {
	Totals     Totals        `json:"totals"`
	Filtered   Filtered      `json:"filtered"`
	Properties []PropertyRow `json:"properties"`
	Options    FilterOptions `json:"filter_options"`
}

type SystemCounts struct {
	Users       int `db:"users"       json:"users"`
	Landlords   int `db:"landlords"   json:"landlords"`
	Tenants     int `db:"tenants"     json:"tenants"`
	Properties  int `db:"properties"  json:"properties"`
	Leases      int `db:"leases"      json:"leases"`
	Memberships int `db:"memberships" json:"memberships"`
}
