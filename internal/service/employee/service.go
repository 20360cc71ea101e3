package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/auth"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
)

type EmployeeServiceImpl struct {
	tx postgresql.Transactor
	employee.EmployeeRepository
	departmentRepo   organization.DepartmentRepository
	refreshTokenRepo auth.RefreshTokenRepository
	now              func() time.Time
}

func NewEmployeeService(
	tx postgresql.Transactor,
	employeeRepo employee.EmployeeRepository,
	departmentRepo organization.DepartmentRepository,
	refreshTokenRepo auth.RefreshTokenRepository,
	now func() time.Time,
) employee.EmployeeService {
	if now == nil {
		now = time.Now
	}
	return &EmployeeServiceImpl{
		tx:                 tx,
		EmployeeRepository: employeeRepo,
		departmentRepo:     departmentRepo,
		refreshTokenRepo:   refreshTokenRepo,
		now:                now,
	}
}

// canView reports whether actor may see emp.
func canView(actor user.Actor, emp employee.Employee) bool {
	switch {
	case actor.IsAdmin(), actor.UserID == emp.ID:
		return true
	case actor.Role == user.RoleDepartmentAdmin:
		return actor.DepartmentID != nil && emp.DepartmentID != nil && *actor.DepartmentID == *emp.DepartmentID
	}
	return false
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, actor user.Actor, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if !actor.CanViewReports() {
		return employee.ListEmployeeResponse{}, user.ErrInsufficientPermissions
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	// Department admins only ever see their own department
	if !actor.IsAdmin() {
		if actor.DepartmentID == nil {
			return employee.ListEmployeeResponse{}, user.ErrInsufficientPermissions
		}
		filter.DepartmentID = actor.DepartmentID
	}

	employees, total, err := s.EmployeeRepository.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	resp := employee.ListEmployeeResponse{
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, e.ToResponse())
	}
	return resp, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (employee.EmployeeResponse, error) {
	emp, err := s.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !canView(actor, emp) {
		// Don't reveal that the employee exists
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return emp.ToResponse(), nil
}

// MyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) MyProfile(ctx context.Context, actor user.Actor) (employee.ProfileResponse, error) {
	emp, err := s.GetByID(ctx, actor.UserID)
	if err != nil {
		return employee.ProfileResponse{}, err
	}

	resp := employee.ProfileResponse{
		Employee:        emp.ToResponse(),
		DepartmentHeads: []employee.DepartmentHead{},
	}
	if emp.DepartmentID == nil {
		return resp, nil
	}

	heads, err := s.ListDepartmentAdmins(ctx, *emp.DepartmentID)
	if err != nil {
		return employee.ProfileResponse{}, err
	}
	for _, h := range heads {
		if h.ID == emp.ID {
			continue
		}
		resp.DepartmentHeads = append(resp.DepartmentHeads, employee.DepartmentHead{ID: h.ID, Name: h.Name, Email: h.Email})
	}
	return resp, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, actor user.Actor, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if !actor.IsAdmin() {
		return employee.EmployeeResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.applyUpdate(ctx, &emp, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.EmployeeRepository.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee updated", "employee_id", updated.ID, "updated_by", actor.UserID)
	return updated.ToResponse(), nil
}

func (s *EmployeeServiceImpl) applyUpdate(ctx context.Context, emp *employee.Employee, req employee.UpdateEmployeeRequest) error {
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Designation != nil {
		emp.Designation = emptyToNil(*req.Designation)
	}
	if req.Role != nil {
		emp.Role = user.Role(*req.Role)
	}
	if req.EmployeeCode != nil {
		emp.EmployeeCode = emptyToNil(*req.EmployeeCode)
	}
	if req.EmploymentType != nil {
		emp.EmploymentType = employee.EmploymentType(*req.EmploymentType)
	}
	if req.DateOfJoining != nil {
		emp.DateOfJoining = parseOptionalDate(*req.DateOfJoining)
	}
	if req.ContractEndDate != nil {
		emp.ContractEndDate = parseOptionalDate(*req.ContractEndDate)
	}
	if req.WorkLocation != nil {
		emp.WorkLocation = emptyToNil(*req.WorkLocation)
	}
	if req.Phone != nil {
		emp.Phone = emptyToNil(*req.Phone)
	}
	if req.EmergencyContact != nil {
		emp.EmergencyContact = emptyToNil(*req.EmergencyContact)
	}
	if req.BloodGroup != nil {
		emp.BloodGroup = emptyToNil(*req.BloodGroup)
	}
	if req.Education != nil {
		emp.Education = emptyToNil(*req.Education)
	}
	if req.Address != nil {
		emp.Address = emptyToNil(*req.Address)
	}
	if req.Aadhaar != nil {
		emp.Aadhaar = emptyToNil(*req.Aadhaar)
	}

	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			emp.DepartmentID = nil
			emp.OrganizationID = nil
		} else {
			dept, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID)
			if err != nil {
				return err
			}
			emp.DepartmentID = &dept.ID
			emp.OrganizationID = &dept.OrganizationID
		}
	}

	// Regular staff have no contract end date
	if !emp.EmploymentType.HasContractEnd() {
		if req.ContractEndDate != nil && emp.ContractEndDate != nil {
			return validator.ValidationErrors{{
				Field:   "contract_end_date",
				Message: "contract_end_date only applies to contract and outsourcing employees",
			}}
		}
		emp.ContractEndDate = nil
	}

	if emp.Role == user.RoleDepartmentAdmin && emp.DepartmentID == nil {
		return validator.ValidationErrors{{
			Field:   "department_id",
			Message: "department_id is required for department admins",
		}}
	}
	return nil
}

// SetStatus implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetStatus(ctx context.Context, actor user.Actor, req employee.SetStatusRequest) (employee.EmployeeResponse, error) {
	if !actor.IsAdmin() {
		return employee.EmployeeResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	active := *req.IsActive
	if req.ID == actor.UserID && !active {
		return employee.EmployeeResponse{}, employee.ErrCannotDeactivateSelf
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		switch {
		case active && emp.IsActive:
			return employee.ErrEmployeeAlreadyActive
		case !active && !emp.IsActive:
			return employee.ErrEmployeeAlreadyInactive
		}

		if err := s.SetActive(txCtx, emp.ID, active, s.now()); err != nil {
			return err
		}
		if !active {
			// Signs the user out everywhere
			if err := s.refreshTokenRepo.RevokeAllForUser(txCtx, emp.ID); err != nil {
				return fmt.Errorf("failed to revoke sessions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee status changed", "employee_id", req.ID, "is_active", active, "changed_by", actor.UserID)

	updated, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return updated.ToResponse(), nil
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseOptionalDate expects a value already checked by Validate.
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := validator.IsValidDate(s)
	if !ok {
		return nil
	}
	return &t
}
