package organization

import "context"

type OrganizationRepository interface {
	Create(ctx context.Context, org Organization) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, req UpdateOrganizationRequest) (Organization, error)

	// Delete removes the organization; its departments go with it
	Delete(ctx context.Context, id string) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)

	// List returns every department with its organization name and head
	// count. An empty organizationID lists all organizations.
	List(ctx context.Context, organizationID string) ([]Department, error)

	Update(ctx context.Context, req UpdateDepartmentRequest) (Department, error)
	Delete(ctx context.Context, id string) error

	// DetachUsers clears the department and organization of every user in
	// the given departments and returns how many were changed.
	DetachUsers(ctx context.Context, departmentIDs []string) (int64, error)
}
