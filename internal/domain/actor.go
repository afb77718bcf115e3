package domain

// ActorRole role of the user performing an operation on a booking.
// Passed in explicitly with each request so that permission checks stay
// pure and testable - the engine never reads ambient session state.
type ActorRole string

const (
	RoleGuest  ActorRole = "guest"
	RoleHost   ActorRole = "host"
	RoleAdmin  ActorRole = "admin"
	RoleSystem ActorRole = "system" // background jobs (completion sweep)
)

// Actor identifies who is performing a booking operation
type Actor struct {
	ID   int64
	Role ActorRole
}

// IsAdmin returns true for admin actors
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsSystem returns true for the internal system actor
func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// ValidRole reports whether the role is known to the engine
func ValidRole(role string) bool {
	switch ActorRole(role) {
	case RoleGuest, RoleHost, RoleAdmin, RoleSystem:
		return true
	default:
		return false
	}
}
