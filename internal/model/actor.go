package model

// Actor is the resolved identity performing an operation. It is built once at
// authentication time and passed explicitly into every service call instead
// of being re-derived from ambient session state.
type Actor struct {
	UserID    uint     `json:"userId"`
	Role      UserRole `json:"role"`
	ProfileID uint     `json:"profileId"` // Student.ID or Instructor.ID depending on Role, 0 for admins
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsInstructor() bool {
	return a.Role == RoleInstructor
}

func (a Actor) IsStudent() bool {
	return a.Role == RoleStudent
}
