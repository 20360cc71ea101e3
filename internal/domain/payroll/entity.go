package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankDetails struct {
	BankName    *string
	BankAccount *string
	IFSCCode    *string
	BankBranch  *string
	PAN         *string
}

type Earnings struct {
	BasicPay            decimal.Decimal
	HRA                 decimal.Decimal
	DA                  decimal.Decimal
	SpecialAllowance    decimal.Decimal
	MedicalAllowance    decimal.Decimal
	ConveyanceAllowance decimal.Decimal
}

func (e Earnings) Total() decimal.Decimal {
	return decimal.Sum(e.BasicPay, e.HRA, e.DA, e.SpecialAllowance, e.MedicalAllowance, e.ConveyanceAllowance)
}

type Deductions struct {
	PF              decimal.Decimal
	ProfessionalTax decimal.Decimal
	IncomeTax       decimal.Decimal
	Insurance       decimal.Decimal
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.PF, d.ProfessionalTax, d.IncomeTax, d.Insurance)
}

// Salary is one employee's pay for a calendar month. Month holds the
// English month name.
type Salary struct {
	ID           string
	UserID       string
	Month        string
	Year         int
	DepartmentID *string
	EmployeeCode *string
	Bank         BankDetails
	CTC          decimal.Decimal
	Earnings     Earnings
	Deductions   Deductions

	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined from users
	UserName    string
	UserEmail   string
	Designation *string
}

// ComputeTotals derives the totals from the components.
func (s *Salary) ComputeTotals() {
	s.TotalEarnings = s.Earnings.Total()
	s.TotalDeductions = s.Deductions.Total()
	s.NetSalary = s.TotalEarnings.Sub(s.TotalDeductions)
}

// SalaryReport is an uploaded payslip document for one month.
type SalaryReport struct {
	ID          string
	UserID      string
	Month       string
	Year        int
	FileName    string
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	UploadedBy  *string
	UploadedAt  time.Time

	// Joined from users
	UserName string
}
