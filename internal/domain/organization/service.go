package organization

import (
	"context"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type OrganizationService interface {
	// Organizations are managed by admins; everyone may list them
	CreateOrganization(ctx context.Context, actor user.Actor, req CreateOrganizationRequest) (OrganizationResponse, error)
	ListOrganizations(ctx context.Context) ([]OrganizationResponse, error)
	UpdateOrganization(ctx context.Context, actor user.Actor, req UpdateOrganizationRequest) (OrganizationResponse, error)
	DeleteOrganization(ctx context.Context, actor user.Actor, id string) error

	CreateDepartment(ctx context.Context, actor user.Actor, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetDepartment(ctx context.Context, id string) (DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, actor user.Actor, req UpdateDepartmentRequest) (DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, actor user.Actor, id string) error
}
