package employee

import (
	"context"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type EmployeeService interface {
	// List is for admins, and for department admins scoped to their department
	List(ctx context.Context, actor user.Actor, filter EmployeeFilter) (ListEmployeeResponse, error)

	// Get is allowed for the employee, an admin, or their department admin
	Get(ctx context.Context, actor user.Actor, id string) (EmployeeResponse, error)

	// MyProfile returns the actor's profile and their department admins
	MyProfile(ctx context.Context, actor user.Actor) (ProfileResponse, error)

	// Update edits the HR profile (admin)
	Update(ctx context.Context, actor user.Actor, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// SetStatus activates or deactivates an account (admin). Deactivation
	// revokes every session of the user.
	SetStatus(ctx context.Context, actor user.Actor, req SetStatusRequest) (EmployeeResponse, error)
}
