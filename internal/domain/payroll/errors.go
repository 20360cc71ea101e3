package payroll

import "errors"

var (
	ErrSalaryNotFound       = errors.New("salary record not found")
	ErrSalaryReportNotFound = errors.New("salary report not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
)
