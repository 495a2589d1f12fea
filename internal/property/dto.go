// AngelaMos | 2026
// dto.go

package property

import (
	"time"
)

type CreatePropertyRequest struct {
	AddressLine1 string  `json:"address_line1" validate:"required,min=1,max=255"`
	AddressLine2 string  `json:"address_line2" validate:"omitempty,max=255"`
	City         string  `json:"city"          validate:"required,min=1,max=100"`
	State        string  `json:"state"         validate:"required,len=2,alpha"`
	Zip          string  `json:"zip"           validate:"required,min=3,max=10"`
	SquareFeet   int     `json:"square_feet"   validate:"gte=0"`
	Bedrooms     int     `json:"bedrooms"      validate:"gte=0"`
	Bathrooms    float64 `json:"bathrooms"     validate:"gte=0"`
}

type UpdatePropertyRequest struct {
	AddressLine1 *string  `json:"address_line1,omitempty" validate:"omitempty,min=1,max=255"`
	AddressLine2 *string  `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City         *string  `json:"city,omitempty"          validate:"omitempty,min=1,max=100"`
	State        *string  `json:"state,omitempty"         validate:"omitempty,len=2,alpha"`
	Zip          *string  `json:"zip,omitempty"           validate:"omitempty,min=3,max=10"`
	SquareFeet   *int     `json:"square_feet,omitempty"   validate:"omitempty,gte=0"`
	Bedrooms     *int     `json:"bedrooms,omitempty"      validate:"omitempty,gte=0"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"     validate:"omitempty,gte=0"`
}

type PropertyResponse struct {
	ID           string    `json:"id"`
	LandlordID   string    `json:"landlord_id"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zip          string    `json:"zip"`
	SquareFeet   int       `json:"square_feet"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToPropertyResponse(p *Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		LandlordID:   p.LandlordID,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		State:        p.State,
		Zip:          p.Zip,
		SquareFeet:   p.SquareFeet,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToPropertyResponseList(properties []Property) []PropertyResponse {
	responses := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		responses = append(responses, ToPropertyResponse(&p))
	}
	return responses
}
