package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// monthOrdinal orders English month names stored as text.
const monthOrdinal = `array_position(ARRAY['January','February','March','April','May','June','July','August','September','October','November','December'], %s.month)`

var employeeSelect = `
	SELECT u.id, u.email, u.name, u.designation, u.role, u.is_active,
	       u.employee_code, u.employment_type, u.date_of_joining, u.contract_end_date,
	       u.work_location, u.phone, u.emergency_contact, u.blood_group, u.education,
	       u.address, u.aadhaar, u.organization_id, u.department_id, u.status_updated_at,
	       u.created_at, u.updated_at,
	       o.name, d.name,
	       s.id IS NOT NULL, s.bank_name, s.bank_account, s.ifsc_code, s.bank_branch, s.pan
	FROM users u
	LEFT JOIN departments d ON d.id::text = u.department_id
	LEFT JOIN organizations o ON o.id::text = u.organization_id
	LEFT JOIN LATERAL (
		SELECT ls.id, ls.bank_name, ls.bank_account, ls.ifsc_code, ls.bank_branch, ls.pan
		FROM salaries ls
		WHERE ls.user_id = u.id
		ORDER BY ls.year DESC, ` + fmt.Sprintf(monthOrdinal, "ls") + ` DESC
		LIMIT 1
	) s ON TRUE`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var role, employmentType string
	var hasSalary bool
	var bank employee.BankDetails
	err := row.Scan(
		&e.ID, &e.Email, &e.Name, &e.Designation, &role, &e.IsActive,
		&e.EmployeeCode, &employmentType, &e.DateOfJoining, &e.ContractEndDate,
		&e.WorkLocation, &e.Phone, &e.EmergencyContact, &e.BloodGroup, &e.Education,
		&e.Address, &e.Aadhaar, &e.OrganizationID, &e.DepartmentID, &e.StatusUpdatedAt,
		&e.CreatedAt, &e.UpdatedAt,
		&e.OrganizationName, &e.DepartmentName,
		&hasSalary, &bank.BankName, &bank.BankAccount, &bank.IFSCCode, &bank.BankBranch, &bank.PAN,
	)
	e.Role = user.Role(role)
	e.EmploymentType = employee.EmploymentType(employmentType)
	if hasSalary {
		e.Bank = &bank
	}
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND u.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.EmploymentType != "" {
		where += fmt.Sprintf(" AND u.employment_type = $%d", argIdx)
		args = append(args, filter.EmploymentType)
		argIdx++
	}
	switch filter.Status {
	case "active":
		where += " AND u.is_active"
	case "inactive":
		where += " AND NOT u.is_active"
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d OR u.employee_code ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users u WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := employeeSelect + ` WHERE ` + where +
		fmt.Sprintf(` ORDER BY u.name, u.id LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (employee.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, total, nil
}

// ListDepartmentAdmins implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListDepartmentAdmins(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+`
		WHERE u.department_id = $1 AND u.role = $2 AND u.is_active
		ORDER BY u.name`,
		departmentID, string(user.RoleDepartmentAdmin),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query department admins: %w", err)
	}

	admins, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (employee.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan department admins: %w", err)
	}
	return admins, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users SET
			name = $2, designation = $3, role = $4, employee_code = $5, employment_type = $6,
			date_of_joining = $7, contract_end_date = $8, work_location = $9, phone = $10,
			emergency_contact = $11, blood_group = $12, education = $13, address = $14,
			aadhaar = $15, organization_id = $16, department_id = $17, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.Name, e.Designation, string(e.Role), e.EmployeeCode, string(e.EmploymentType),
		e.DateOfJoining, e.ContractEndDate, e.WorkLocation, e.Phone,
		e.EmergencyContact, e.BloodGroup, e.Education, e.Address,
		e.Aadhaar, e.OrganizationID, e.DepartmentID,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		case isInvalidTextRepresentation(err):
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.GetByID(ctx, e.ID)
}

// SetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE users SET is_active = $2, status_updated_at = $3, updated_at = NOW() WHERE id = $1`,
		id, active, at,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
