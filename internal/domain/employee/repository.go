package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// List returns one page of employees and the total matching the filter
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)

	// ListDepartmentAdmins returns the active department admins of a department
	ListDepartmentAdmins(ctx context.Context, departmentID string) ([]Employee, error)

	Update(ctx context.Context, emp Employee) (Employee, error)

	// SetActive flips is_active and stamps status_updated_at
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
}
