package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

var salarySelect = `
	SELECT s.id, s.user_id, s.month, s.year, s.department_id, s.employee_code,
	       s.bank_name, s.bank_account, s.ifsc_code, s.bank_branch, s.pan,
	       s.ctc, s.basic_pay, s.hra, s.da, s.special_allowance, s.medical_allowance, s.conveyance_allowance,
	       s.pf, s.professional_tax, s.income_tax, s.insurance,
	       s.total_earnings, s.total_deductions, s.net_salary,
	       s.updated_by, s.created_at, s.updated_at,
	       u.name, u.email, u.designation
	FROM salaries s
	JOIN users u ON u.id = s.user_id`

func scanSalary(row pgx.Row) (payroll.Salary, error) {
	var s payroll.Salary
	err := row.Scan(
		&s.ID, &s.UserID, &s.Month, &s.Year, &s.DepartmentID, &s.EmployeeCode,
		&s.Bank.BankName, &s.Bank.BankAccount, &s.Bank.IFSCCode, &s.Bank.BankBranch, &s.Bank.PAN,
		&s.CTC, &s.Earnings.BasicPay, &s.Earnings.HRA, &s.Earnings.DA,
		&s.Earnings.SpecialAllowance, &s.Earnings.MedicalAllowance, &s.Earnings.ConveyanceAllowance,
		&s.Deductions.PF, &s.Deductions.ProfessionalTax, &s.Deductions.IncomeTax, &s.Deductions.Insurance,
		&s.TotalEarnings, &s.TotalDeductions, &s.NetSalary,
		&s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.UserName, &s.UserEmail, &s.Designation,
	)
	return s, err
}

// Upsert implements payroll.SalaryRepository.
func (r *salaryRepositoryImpl) Upsert(ctx context.Context, s payroll.Salary) (payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO salaries (
			user_id, month, year, department_id, employee_code,
			bank_name, bank_account, ifsc_code, bank_branch, pan,
			ctc, basic_pay, hra, da, special_allowance, medical_allowance, conveyance_allowance,
			pf, professional_tax, income_tax, insurance,
			total_earnings, total_deductions, net_salary, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		ON CONFLICT ON CONSTRAINT salaries_user_period_key DO UPDATE SET
			department_id = EXCLUDED.department_id,
			employee_code = EXCLUDED.employee_code,
			bank_name = EXCLUDED.bank_name,
			bank_account = EXCLUDED.bank_account,
			ifsc_code = EXCLUDED.ifsc_code,
			bank_branch = EXCLUDED.bank_branch,
			pan = EXCLUDED.pan,
			ctc = EXCLUDED.ctc,
			basic_pay = EXCLUDED.basic_pay,
			hra = EXCLUDED.hra,
			da = EXCLUDED.da,
			special_allowance = EXCLUDED.special_allowance,
			medical_allowance = EXCLUDED.medical_allowance,
			conveyance_allowance = EXCLUDED.conveyance_allowance,
			pf = EXCLUDED.pf,
			professional_tax = EXCLUDED.professional_tax,
			income_tax = EXCLUDED.income_tax,
			insurance = EXCLUDED.insurance,
			total_earnings = EXCLUDED.total_earnings,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING id`,
		s.UserID, s.Month, s.Year, s.DepartmentID, s.EmployeeCode,
		s.Bank.BankName, s.Bank.BankAccount, s.Bank.IFSCCode, s.Bank.BankBranch, s.Bank.PAN,
		s.CTC, s.Earnings.BasicPay, s.Earnings.HRA, s.Earnings.DA,
		s.Earnings.SpecialAllowance, s.Earnings.MedicalAllowance, s.Earnings.ConveyanceAllowance,
		s.Deductions.PF, s.Deductions.ProfessionalTax, s.Deductions.IncomeTax, s.Deductions.Insurance,
		s.TotalEarnings, s.TotalDeductions, s.NetSalary, s.UpdatedBy,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return payroll.Salary{}, payroll.ErrEmployeeNotFound
		}
		return payroll.Salary{}, fmt.Errorf("failed to save salary: %w", err)
	}

	saved, err := scanSalary(q.QueryRow(ctx, salarySelect+` WHERE s.id = $1`, id))
	if err != nil {
		return payroll.Salary{}, fmt.Errorf("failed to reload salary: %w", err)
	}
	return saved, nil
}

// Get implements payroll.SalaryRepository.
func (r *salaryRepositoryImpl) Get(ctx context.Context, userID, month string, year int) (payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalary(q.QueryRow(ctx,
		salarySelect+` WHERE s.user_id = $1 AND s.month = $2 AND s.year = $3`,
		userID, month, year,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return payroll.Salary{}, payroll.ErrSalaryNotFound
		}
		return payroll.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

// GetLatestBefore implements payroll.SalaryRepository.
func (r *salaryRepositoryImpl) GetLatestBefore(ctx context.Context, userID, month string, year int) (payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	m, ok := validator.ParseMonthName(month)
	if !ok {
		return payroll.Salary{}, payroll.ErrSalaryNotFound
	}

	ordinal := fmt.Sprintf(monthOrdinal, "s")
	query := salarySelect + `
		WHERE s.user_id = $1
		  AND (s.year < $2 OR (s.year = $2 AND ` + ordinal + ` < $3))
		ORDER BY s.year DESC, ` + ordinal + ` DESC
		LIMIT 1`

	s, err := scanSalary(q.QueryRow(ctx, query, userID, year, int(m)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return payroll.Salary{}, payroll.ErrSalaryNotFound
		}
		return payroll.Salary{}, fmt.Errorf("failed to get previous salary: %w", err)
	}
	return s, nil
}

// ListByPeriod implements payroll.SalaryRepository.
func (r *salaryRepositoryImpl) ListByPeriod(ctx context.Context, departmentID, month string, year int) ([]payroll.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := salarySelect + ` WHERE s.month = $1 AND s.year = $2`
	args := []any{month, year}
	if departmentID != "" {
		query += ` AND s.department_id = $3`
		args = append(args, departmentID)
	}
	query += ` ORDER BY u.name, s.user_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salaries: %w", err)
	}

	salaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payroll.Salary, error) {
		return scanSalary(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan salaries: %w", err)
	}
	return salaries, nil
}

type salaryReportRepositoryImpl struct {
	db *database.DB
}

func NewSalaryReportRepository(db *database.DB) payroll.SalaryReportRepository {
	return &salaryReportRepositoryImpl{db: db}
}

const salaryReportSelect = `
	SELECT r.id, r.user_id, r.month, r.year, r.file_name, r.object_key, r.content_type,
	       r.size_bytes, r.uploaded_by, r.uploaded_at, u.name
	FROM salary_reports r
	JOIN users u ON u.id = r.user_id`

func scanSalaryReport(row pgx.Row) (payroll.SalaryReport, error) {
	var sr payroll.SalaryReport
	err := row.Scan(
		&sr.ID, &sr.UserID, &sr.Month, &sr.Year, &sr.FileName, &sr.ObjectKey, &sr.ContentType,
		&sr.SizeBytes, &sr.UploadedBy, &sr.UploadedAt, &sr.UserName,
	)
	return sr, err
}

// Create implements payroll.SalaryReportRepository.
func (r *salaryReportRepositoryImpl) Create(ctx context.Context, sr payroll.SalaryReport) (payroll.SalaryReport, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO salary_reports (user_id, month, year, file_name, object_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		sr.UserID, sr.Month, sr.Year, sr.FileName, sr.ObjectKey, sr.ContentType, sr.SizeBytes, sr.UploadedBy,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return payroll.SalaryReport{}, payroll.ErrEmployeeNotFound
		}
		return payroll.SalaryReport{}, fmt.Errorf("failed to create salary report: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements payroll.SalaryReportRepository.
func (r *salaryReportRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.SalaryReport, error) {
	q := GetQuerier(ctx, r.db)

	sr, err := scanSalaryReport(q.QueryRow(ctx, salaryReportSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return payroll.SalaryReport{}, payroll.ErrSalaryReportNotFound
		}
		return payroll.SalaryReport{}, fmt.Errorf("failed to get salary report: %w", err)
	}
	return sr, nil
}

// List implements payroll.SalaryReportRepository.
func (r *salaryReportRepositoryImpl) List(ctx context.Context, userID string, year int) ([]payroll.SalaryReport, error) {
	q := GetQuerier(ctx, r.db)

	query := salaryReportSelect + ` WHERE r.user_id = $1`
	args := []any{userID}
	if year != 0 {
		query += ` AND r.year = $2`
		args = append(args, year)
	}
	query += ` ORDER BY r.year DESC, ` + fmt.Sprintf(monthOrdinal, "r") + ` DESC, r.uploaded_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return []payroll.SalaryReport{}, nil
		}
		return nil, fmt.Errorf("failed to query salary reports: %w", err)
	}

	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (payroll.SalaryReport, error) {
		return scanSalaryReport(row)
	})
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return []payroll.SalaryReport{}, nil
		}
		return nil, fmt.Errorf("failed to scan salary reports: %w", err)
	}
	return reports, nil
}

// Delete implements payroll.SalaryReportRepository.
func (r *salaryReportRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_reports WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return payroll.ErrSalaryReportNotFound
		}
		return fmt.Errorf("failed to delete salary report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSalaryReportNotFound
	}
	return nil
}
