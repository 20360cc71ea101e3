package payroll

import "context"

type SalaryRepository interface {
	// Upsert writes the salary for its user and period, replacing any
	// existing one.
	Upsert(ctx context.Context, s Salary) (Salary, error)
	Get(ctx context.Context, userID, month string, year int) (Salary, error)

	// GetLatestBefore returns the most recent salary strictly before the
	// given period.
	GetLatestBefore(ctx context.Context, userID, month string, year int) (Salary, error)

	// ListByPeriod lists a month's salaries; an empty departmentID lists
	// every department.
	ListByPeriod(ctx context.Context, departmentID, month string, year int) ([]Salary, error)
}

type SalaryReportRepository interface {
	Create(ctx context.Context, r SalaryReport) (SalaryReport, error)
	GetByID(ctx context.Context, id string) (SalaryReport, error)
	List(ctx context.Context, userID string, year int) ([]SalaryReport, error)
	Delete(ctx context.Context, id string) error
}
