package roster

import "github.com/google/uuid"

// Identity is the authenticated (user id, role) pair resolved by the access
// control layer. Services authorize against it without reloading the user.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}
