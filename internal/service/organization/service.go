package organization

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
)

type OrganizationServiceImpl struct {
	tx       postgresql.Transactor
	orgRepo  organization.OrganizationRepository
	deptRepo organization.DepartmentRepository
}

func NewOrganizationService(tx postgresql.Transactor, orgRepo organization.OrganizationRepository, deptRepo organization.DepartmentRepository) organization.OrganizationService {
	return &OrganizationServiceImpl{tx: tx, orgRepo: orgRepo, deptRepo: deptRepo}
}

// CreateOrganization implements organization.OrganizationService.
func (s *OrganizationServiceImpl) CreateOrganization(ctx context.Context, actor user.Actor, req organization.CreateOrganizationRequest) (organization.OrganizationResponse, error) {
	if !actor.IsAdmin() {
		return organization.OrganizationResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return organization.OrganizationResponse{}, err
	}

	created, err := s.orgRepo.Create(ctx, organization.Organization{Name: req.Name, Description: req.Description})
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	slog.Info("organization created", "organization_id", created.ID, "created_by", actor.UserID)
	return created.ToResponse(nil), nil
}

// ListOrganizations implements organization.OrganizationService.
func (s *OrganizationServiceImpl) ListOrganizations(ctx context.Context) ([]organization.OrganizationResponse, error) {
	orgs, err := s.orgRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	depts, err := s.deptRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	byOrg := make(map[string][]organization.Department, len(orgs))
	for _, d := range depts {
		byOrg[d.OrganizationID] = append(byOrg[d.OrganizationID], d)
	}

	responses := make([]organization.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		responses = append(responses, o.ToResponse(byOrg[o.ID]))
	}
	return responses, nil
}

// UpdateOrganization implements organization.OrganizationService.
func (s *OrganizationServiceImpl) UpdateOrganization(ctx context.Context, actor user.Actor, req organization.UpdateOrganizationRequest) (organization.OrganizationResponse, error) {
	if !actor.IsAdmin() {
		return organization.OrganizationResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return organization.OrganizationResponse{}, err
	}

	updated, err := s.orgRepo.Update(ctx, req)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}
	depts, err := s.deptRepo.List(ctx, updated.ID)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}
	return updated.ToResponse(depts), nil
}

// DeleteOrganization removes the organization with its departments and
// detaches their users.
func (s *OrganizationServiceImpl) DeleteOrganization(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}

	var detached int64
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.orgRepo.GetByID(txCtx, id); err != nil {
			return err
		}

		depts, err := s.deptRepo.List(txCtx, id)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(depts))
		for _, d := range depts {
			ids = append(ids, d.ID)
		}

		detached, err = s.deptRepo.DetachUsers(txCtx, ids)
		if err != nil {
			return err
		}
		return s.orgRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("organization deleted", "organization_id", id, "deleted_by", actor.UserID, "users_detached", detached)
	return nil
}

// CreateDepartment implements organization.OrganizationService.
func (s *OrganizationServiceImpl) CreateDepartment(ctx context.Context, actor user.Actor, req organization.CreateDepartmentRequest) (organization.DepartmentResponse, error) {
	if !actor.IsAdmin() {
		return organization.DepartmentResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return organization.DepartmentResponse{}, err
	}

	if _, err := s.orgRepo.GetByID(ctx, req.OrganizationID); err != nil {
		return organization.DepartmentResponse{}, err
	}

	created, err := s.deptRepo.Create(ctx, organization.Department{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
	})
	if err != nil {
		return organization.DepartmentResponse{}, err
	}

	slog.Info("department created", "department_id", created.ID, "organization_id", created.OrganizationID, "created_by", actor.UserID)
	return created.ToResponse(), nil
}

// GetDepartment implements organization.OrganizationService.
func (s *OrganizationServiceImpl) GetDepartment(ctx context.Context, id string) (organization.DepartmentResponse, error) {
	d, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return organization.DepartmentResponse{}, err
	}
	return d.ToResponse(), nil
}

// UpdateDepartment implements organization.OrganizationService.
func (s *OrganizationServiceImpl) UpdateDepartment(ctx context.Context, actor user.Actor, req organization.UpdateDepartmentRequest) (organization.DepartmentResponse, error) {
	if !actor.IsAdmin() {
		return organization.DepartmentResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return organization.DepartmentResponse{}, err
	}

	updated, err := s.deptRepo.Update(ctx, req)
	if err != nil {
		return organization.DepartmentResponse{}, err
	}
	return updated.ToResponse(), nil
}

// DeleteDepartment detaches the department's users before removing it.
func (s *OrganizationServiceImpl) DeleteDepartment(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}

	var detached int64
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.deptRepo.GetByID(txCtx, id); err != nil {
			return err
		}

		var err error
		detached, err = s.deptRepo.DetachUsers(txCtx, []string{id})
		if err != nil {
			return fmt.Errorf("failed to detach users: %w", err)
		}
		return s.deptRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("department deleted", "department_id", id, "deleted_by", actor.UserID, "users_detached", detached)
	return nil
}
