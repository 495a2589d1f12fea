// AngelaMos | 2026
// entity.go

package property

import (
	"time"
)

// Property is a rental unit owned by exactly one landlord. Bathrooms are
// stored in tenths of a bath (25 = 2.5 baths) so half-bath granularity
// survives without floating point.
type Property struct {
	ID              string    `db:"id"`
	LandlordID      string    `db:"landlord_id"`
	AddressLine1    string    `db:"address_line1"`
	AddressLine2    string    `db:"address_line2"`
	City            string    `db:"city"`
	State           string    `db:"state"`
	Zip             string    `db:"zip"`
	SquareFeet      int       `db:"square_feet"`
	Bedrooms        int       `db:"bedrooms"`
	BathroomsTenths int       `db:"bathrooms_tenths"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (p *Property) Bathrooms() float64 {
	return float64(p.BathroomsTenths) / 10
}
