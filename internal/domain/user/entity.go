package user

import "time"

type Role string

const (
	RoleAdmin           Role = "admin"            // Organization-wide administration
	RoleDepartmentAdmin Role = "department_admin" // Can view their department's data
	RoleUser            Role = "user"             // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDepartmentAdmin, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Designation  *string
	Role         Role
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user has organization-wide access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor returns the identity that is passed into service calls on behalf of u.
func (u *User) Actor() Actor {
	return Actor{
		UserID:       u.ID,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
	}
}
