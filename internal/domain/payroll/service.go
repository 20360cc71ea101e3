package payroll

import (
	"context"
	"io"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type PayrollService interface {
	// Salaries are written by admins
	UpsertSalary(ctx context.Context, actor user.Actor, req UpsertSalaryRequest) (SalaryResponse, error)
	SalaryTemplate(ctx context.Context, actor user.Actor, q SalaryQuery) (SalaryTemplateResponse, error)

	Payslip(ctx context.Context, actor user.Actor, q SalaryQuery) (PayslipResponse, error)
	DepartmentSalaries(ctx context.Context, actor user.Actor, req DepartmentSalaryRequest) (DepartmentSalaryResponse, error)

	UploadReport(ctx context.Context, actor user.Actor, req UploadReportRequest) (SalaryReportResponse, error)
	ListReports(ctx context.Context, actor user.Actor, req ListReportsRequest) ([]SalaryReportResponse, error)

	// OpenReport returns the report and a reader over its document. The
	// caller closes it.
	OpenReport(ctx context.Context, actor user.Actor, id string) (SalaryReport, io.ReadCloser, error)
	DeleteReport(ctx context.Context, actor user.Actor, id string) error
}
