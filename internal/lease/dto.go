// AngelaMos | 2026
// dto.go

package lease

import (
	"time"
)

const dateLayout = "2006-01-02"

type CreateLeaseRequest struct {
	StartDate        string   `json:"start_date"         validate:"required,datetime=2006-01-02"`
	EndDate          string   `json:"end_date"           validate:"required,datetime=2006-01-02"`
	MonthlyRentCents int64    `json:"monthly_rent_cents" validate:"gte=0"`
	TenantEmails     []string `json:"tenant_emails"      validate:"dive,required,email"`
}

type EditLeaseRequest struct {
	StartDate        string   `json:"start_date"         validate:"required,datetime=2006-01-02"`
	EndDate          string   `json:"end_date"           validate:"required,datetime=2006-01-02"`
	MonthlyRentCents int64    `json:"monthly_rent_cents" validate:"gte=0"`
	TenantEmails     []string `json:"tenant_emails"      validate:"dive,required,email"`
}

type MembershipResponse struct {
	TenantID  string `json:"tenant_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Confirmed bool   `json:"confirmed"`
}

type LeaseResponse struct {
	ID               string               `json:"id"`
	PropertyID       string               `json:"property_id"`
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	MonthlyRentCents int64                `json:"monthly_rent_cents"`
	Status           string               `json:"status"`
	Memberships      []MembershipResponse `json:"memberships,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type LeaseListResponse struct {
	Leases []LeaseResponse `json:"leases"`
}

func ToLeaseResponse(
	l *Lease,
	memberships []MembershipWithTenant,
) LeaseResponse {
	resp := LeaseResponse{
		ID:               l.ID,
		PropertyID:       l.PropertyID,
		StartDate:        l.StartDate.Format(dateLayout),
		EndDate:          l.EndDate.Format(dateLayout),
		MonthlyRentCents: l.MonthlyRentCents,
		Status:           l.Status,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}

	for _, m := range memberships {
		resp.Memberships = append(resp.Memberships, MembershipResponse{
			TenantID:  m.TenantID,
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Confirmed: m.Confirmed,
		})
	}

	return resp
}

func ToLeaseResponseList(leases []Lease) []LeaseResponse {
	responses := make([]LeaseResponse, 0, len(leases))
	for _, l := range leases {
		responses = append(responses, ToLeaseResponse(&l, nil))
	}
	return responses
}
