package user

// Actor is the authenticated caller. Handlers build it from the verified
// token and pass it explicitly into every service operation.
type Actor struct {
	UserID       string
	Email        string
	Role         Role
	DepartmentID *string
}

// IsAdmin checks if the actor has organization-wide access
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanViewReports checks if the actor may read other users' records
func (a Actor) CanViewReports() bool {
	return a.Role == RoleAdmin || a.Role == RoleDepartmentAdmin
}
