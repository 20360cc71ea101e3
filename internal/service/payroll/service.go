package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
)

type PayrollServiceImpl struct {
	payroll.SalaryRepository
	reportRepo   payroll.SalaryReportRepository
	employeeRepo employee.EmployeeRepository
	fileService  file.FileService
	loc          *time.Location
}

func NewPayrollService(
	salaryRepo payroll.SalaryRepository,
	reportRepo payroll.SalaryReportRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	loc *time.Location,
) payroll.PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		SalaryRepository: salaryRepo,
		reportRepo:       reportRepo,
		employeeRepo:     employeeRepo,
		fileService:      fileService,
		loc:              loc,
	}
}

// canView reports whether actor may see emp's pay.
func canView(actor user.Actor, emp employee.Employee) bool {
	switch {
	case actor.IsAdmin(), actor.UserID == emp.ID:
		return true
	case actor.Role == user.RoleDepartmentAdmin:
		return actor.DepartmentID != nil && emp.DepartmentID != nil && *actor.DepartmentID == *emp.DepartmentID
	}
	return false
}

// visibleEmployee loads userID and hides it from actors who may not see it.
func (s *PayrollServiceImpl) visibleEmployee(ctx context.Context, actor user.Actor, userID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, userID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !canView(actor, emp) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// UpsertSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpsertSalary(ctx context.Context, actor user.Actor, req payroll.UpsertSalaryRequest) (payroll.SalaryResponse, error) {
	if !actor.IsAdmin() {
		return payroll.SalaryResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	salary := req.ToSalary()
	salary.DepartmentID = emp.DepartmentID
	salary.EmployeeCode = emp.EmployeeCode
	salary.UpdatedBy = &actor.UserID

	saved, err := s.Upsert(ctx, salary)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	slog.Info("salary saved",
		"user_id", saved.UserID, "month", saved.Month, "year", saved.Year,
		"net_salary", saved.NetSalary.StringFixed(2), "updated_by", actor.UserID)
	return saved.ToResponse(), nil
}

// SalaryTemplate implements payroll.PayrollService.
func (s *PayrollServiceImpl) SalaryTemplate(ctx context.Context, actor user.Actor, q payroll.SalaryQuery) (payroll.SalaryTemplateResponse, error) {
	if !actor.IsAdmin() {
		return payroll.SalaryTemplateResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := q.Validate(); err != nil {
		return payroll.SalaryTemplateResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, q.UserID)
	if err != nil {
		return payroll.SalaryTemplateResponse{}, err
	}

	current, err := s.Get(ctx, emp.ID, q.Month, q.Year)
	if err == nil {
		return payroll.SalaryTemplateResponse{Source: payroll.TemplateCurrent, Salary: current.ToResponse()}, nil
	}
	if !errors.Is(err, payroll.ErrSalaryNotFound) {
		return payroll.SalaryTemplateResponse{}, err
	}

	previous, err := s.GetLatestBefore(ctx, emp.ID, q.Month, q.Year)
	switch {
	case err == nil:
		previous.ID = ""
		previous.Month, previous.Year = q.Month, q.Year
		previous.DepartmentID = emp.DepartmentID
		previous.EmployeeCode = emp.EmployeeCode
		previous.UpdatedAt = time.Time{}
		return payroll.SalaryTemplateResponse{Source: payroll.TemplatePrevious, Salary: previous.ToResponse()}, nil
	case !errors.Is(err, payroll.ErrSalaryNotFound):
		return payroll.SalaryTemplateResponse{}, err
	}

	blank := payroll.Salary{
		UserID:       emp.ID,
		Month:        q.Month,
		Year:         q.Year,
		DepartmentID: emp.DepartmentID,
		EmployeeCode: emp.EmployeeCode,
		UserName:     emp.Name,
		Designation:  emp.Designation,
	}
	if emp.Bank != nil {
		blank.Bank = payroll.BankDetails{
			BankName:    emp.Bank.BankName,
			BankAccount: emp.Bank.BankAccount,
			IFSCCode:    emp.Bank.IFSCCode,
			BankBranch:  emp.Bank.BankBranch,
			PAN:         emp.Bank.PAN,
		}
	}
	blank.ComputeTotals()
	return payroll.SalaryTemplateResponse{Source: payroll.TemplateEmpty, Salary: blank.ToResponse()}, nil
}

// Payslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, actor user.Actor, q payroll.SalaryQuery) (payroll.PayslipResponse, error) {
	if q.UserID == "" {
		q.UserID = actor.UserID
	}
	if err := q.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	emp, err := s.visibleEmployee(ctx, actor, q.UserID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	salary, err := s.Get(ctx, emp.ID, q.Month, q.Year)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	resp := payroll.PayslipResponse{
		Employee: payroll.PayslipEmployee{
			Name:           emp.Name,
			Email:          emp.Email,
			EmployeeCode:   salary.EmployeeCode,
			Designation:    emp.Designation,
			DepartmentName: emp.DepartmentName,
		},
		Salary:           salary.ToResponse(),
		NetSalaryInWords: payroll.AmountInWords(salary.NetSalary),
	}
	if resp.Employee.EmployeeCode == nil {
		resp.Employee.EmployeeCode = emp.EmployeeCode
	}
	if emp.DateOfJoining != nil {
		doj := emp.DateOfJoining.Format("2006-01-02")
		resp.Employee.DateOfJoining = &doj
	}
	return resp, nil
}

// DepartmentSalaries implements payroll.PayrollService.
func (s *PayrollServiceImpl) DepartmentSalaries(ctx context.Context, actor user.Actor, req payroll.DepartmentSalaryRequest) (payroll.DepartmentSalaryResponse, error) {
	if !actor.CanViewReports() {
		return payroll.DepartmentSalaryResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return payroll.DepartmentSalaryResponse{}, err
	}

	// Department admins only ever see their own department
	if !actor.IsAdmin() {
		if actor.DepartmentID == nil {
			return payroll.DepartmentSalaryResponse{}, user.ErrInsufficientPermissions
		}
		req.DepartmentID = *actor.DepartmentID
	}

	salaries, err := s.ListByPeriod(ctx, req.DepartmentID, req.Month, req.Year)
	if err != nil {
		return payroll.DepartmentSalaryResponse{}, err
	}

	resp := payroll.DepartmentSalaryResponse{
		DepartmentID: req.DepartmentID,
		Month:        req.Month,
		Year:         req.Year,
		Salaries:     make([]payroll.SalaryResponse, 0, len(salaries)),
		Totals:       payroll.Totals(salaries),
	}
	for _, sal := range salaries {
		resp.Salaries = append(resp.Salaries, sal.ToResponse())
	}
	return resp, nil
}

// UploadReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) UploadReport(ctx context.Context, actor user.Actor, req payroll.UploadReportRequest) (payroll.SalaryReportResponse, error) {
	if !actor.IsAdmin() {
		return payroll.SalaryReportResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return payroll.SalaryReportResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return payroll.SalaryReportResponse{}, err
	}

	dir := path.Join("salary_reports", emp.ID, req.Month+"_"+strconv.Itoa(req.Year))
	stored, err := s.fileService.UploadDocument(ctx, req.File, req.FileName, req.ContentType, dir)
	if err != nil {
		return payroll.SalaryReportResponse{}, err
	}

	created, err := s.reportRepo.Create(ctx, payroll.SalaryReport{
		UserID:      emp.ID,
		Month:       req.Month,
		Year:        req.Year,
		FileName:    stored.DisplayName(req.FileName),
		ObjectKey:   stored.Path,
		ContentType: stored.ContentType,
		SizeBytes:   stored.Size,
		UploadedBy:  &actor.UserID,
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored.Path); delErr != nil {
			slog.Error("failed to remove orphaned salary report", "path", stored.Path, "error", delErr)
		}
		return payroll.SalaryReportResponse{}, err
	}

	slog.Info("salary report uploaded", "report_id", created.ID, "user_id", emp.ID, "uploaded_by", actor.UserID)
	return s.reportResponse(ctx, created)
}

// ListReports implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListReports(ctx context.Context, actor user.Actor, req payroll.ListReportsRequest) ([]payroll.SalaryReportResponse, error) {
	if req.UserID == "" {
		req.UserID = actor.UserID
	}
	if req.Year != 0 && (req.Year < 2000 || req.Year > 2100) {
		return nil, validator.ValidationErrors{{Field: "year", Message: "year must be between 2000 and 2100"}}
	}
	if req.UserID != actor.UserID {
		if _, err := s.visibleEmployee(ctx, actor, req.UserID); err != nil {
			return nil, err
		}
	}

	reports, err := s.reportRepo.List(ctx, req.UserID, req.Year)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.SalaryReportResponse, 0, len(reports))
	for _, r := range reports {
		resp, err := s.reportResponse(ctx, r)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// OpenReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) OpenReport(ctx context.Context, actor user.Actor, id string) (payroll.SalaryReport, io.ReadCloser, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryReport{}, nil, err
	}
	if report.UserID != actor.UserID {
		if _, err := s.visibleEmployee(ctx, actor, report.UserID); err != nil {
			return payroll.SalaryReport{}, nil, payroll.ErrSalaryReportNotFound
		}
	}

	rc, err := s.fileService.OpenFile(ctx, report.ObjectKey)
	if err != nil {
		return payroll.SalaryReport{}, nil, fmt.Errorf("failed to open salary report: %w", err)
	}
	return report, rc, nil
}

// DeleteReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeleteReport(ctx context.Context, actor user.Actor, id string) error {
	if !actor.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, report.ID); err != nil {
		return err
	}

	if err := s.fileService.DeleteFile(ctx, report.ObjectKey); err != nil {
		slog.Error("failed to delete salary report file", "report_id", report.ID, "path", report.ObjectKey, "error", err)
	}

	slog.Info("salary report deleted", "report_id", report.ID, "deleted_by", actor.UserID)
	return nil
}

func (s *PayrollServiceImpl) reportResponse(ctx context.Context, r payroll.SalaryReport) (payroll.SalaryReportResponse, error) {
	url, err := s.fileService.GetFileURL(ctx, r.ObjectKey, 0)
	if err != nil {
		return payroll.SalaryReportResponse{}, fmt.Errorf("failed to build salary report url: %w", err)
	}
	return payroll.SalaryReportResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Month:       r.Month,
		Year:        r.Year,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		URL:         url,
		UploadedAt:  r.UploadedAt.In(s.loc).Format("2006-01-02 15:04:05"),
	}, nil
}
