package leave

import "context"

// ListFilter selects applications. Nil fields are not filtered on.
type ListFilter struct {
	UserID       *string
	DepartmentID *string
	Status       *Status
	Awaiting     Level
}

type LeaveRepository interface {
	Create(ctx context.Context, app LeaveApplication) (LeaveApplication, error)
	GetByID(ctx context.Context, id string) (LeaveApplication, error)

	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id string) (LeaveApplication, error)

	List(ctx context.Context, filter ListFilter) ([]LeaveApplication, error)

	// UpdateDecision persists Status and both approval steps
	UpdateDecision(ctx context.Context, app LeaveApplication) error
}
