package domain

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated identity the API layer resolves before
// calling into the core.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the actor may mutate a booking owned by
// ownerID.
func (a Actor) CanManage(ownerID string) bool {
	return a.ID == ownerID || a.IsAdmin()
}
