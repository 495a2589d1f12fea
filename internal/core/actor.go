// AngelaMos | 2026
// actor.go

package core

// Actor is the authenticated principal for a request: the user record plus
// the landlord or tenant row it is acting as. Services take it explicitly
// rather than digging claims out of the context.
type Actor struct {
	UserID string
	Role   string
	RoleID string
}

const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

func (a Actor) IsLandlord() bool {
	return a.Role == RoleLandlord
}

func (a Actor) IsTenant() bool {
	return a.Role == RoleTenant
}
