// AngelaMos | 2026
// dto.go

package identity

import (
	"time"
)

type AddRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=landlord tenant"`
}

type RoleResponse struct {
	Role   string `json:"role"`
	RoleID string `json:"role_id"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone,omitempty"      validate:"omitempty,max=32"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TenantDetailResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

type LandlordDetailResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToTenantDetailResponse(t *TenantProfile) TenantDetailResponse {
	return TenantDetailResponse{
		ID:        t.ID,
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Phone:     t.Phone,
	}
}

func ToLandlordDetailResponse(l *LandlordProfile) LandlordDetailResponse {
	return LandlordDetailResponse{
		ID:        l.ID,
		Email:     l.Email,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Phone:     l.Phone,
	}
}
