package payroll

import (
	"io"
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Period names a payroll month, e.g. {"October", 2026}.
type Period struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// normalize validates the period and rewrites Month to its canonical
// spelling.
func (p *Period) normalize() validator.ValidationErrors {
	var errs validator.ValidationErrors
	if m, ok := validator.ParseMonthName(p.Month); ok {
		p.Month = m.String()
	} else {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a full month name such as January"})
	}
	if p.Year < 2000 || p.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}
	return errs
}

type UpsertSalaryRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Period

	BankName    *string `json:"bank_name,omitempty" validate:"omitempty,max=100"`
	BankAccount *string `json:"bank_account,omitempty" validate:"omitempty,max=34"`
	IFSCCode    *string `json:"ifsc_code,omitempty" validate:"omitempty,max=11"`
	BankBranch  *string `json:"bank_branch,omitempty" validate:"omitempty,max=100"`
	PAN         *string `json:"pan,omitempty" validate:"omitempty,max=10"`

	CTC                 decimal.Decimal `json:"ctc"`
	BasicPay            decimal.Decimal `json:"basic_pay"`
	HRA                 decimal.Decimal `json:"hra"`
	DA                  decimal.Decimal `json:"da"`
	SpecialAllowance    decimal.Decimal `json:"special_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	PF                  decimal.Decimal `json:"pf"`
	ProfessionalTax     decimal.Decimal `json:"professional_tax"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	Insurance           decimal.Decimal `json:"insurance"`
}

func (r *UpsertSalaryRequest) amounts() []struct {
	field string
	value decimal.Decimal
} {
	return []struct {
		field string
		value decimal.Decimal
	}{
		{"ctc", r.CTC},
		{"basic_pay", r.BasicPay},
		{"hra", r.HRA},
		{"da", r.DA},
		{"special_allowance", r.SpecialAllowance},
		{"medical_allowance", r.MedicalAllowance},
		{"conveyance_allowance", r.ConveyanceAllowance},
		{"pf", r.PF},
		{"professional_tax", r.ProfessionalTax},
		{"income_tax", r.IncomeTax},
		{"insurance", r.Insurance},
	}
}

// maxAmount fits NUMERIC(14, 2).
var maxAmount = decimal.New(1, 12)

func (r *UpsertSalaryRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	for _, p := range []**string{&r.BankName, &r.BankAccount, &r.IFSCCode, &r.BankBranch, &r.PAN} {
		if *p == nil {
			continue
		}
		v := strings.TrimSpace(**p)
		if v == "" {
			*p = nil
		} else {
			*p = &v
		}
	}
	if r.IFSCCode != nil {
		v := strings.ToUpper(*r.IFSCCode)
		r.IFSCCode = &v
	}
	if r.PAN != nil {
		v := strings.ToUpper(*r.PAN)
		r.PAN = &v
	}

	if err := validator.Struct(r); err != nil {
		return err
	}

	errs := r.Period.normalize()
	for _, a := range r.amounts() {
		switch {
		case a.value.IsNegative():
			errs = append(errs, validator.ValidationError{Field: a.field, Message: a.field + " must not be negative"})
		case !a.value.Equal(a.value.Round(2)):
			errs = append(errs, validator.ValidationError{Field: a.field, Message: a.field + " must have at most 2 decimal places"})
		case a.value.GreaterThanOrEqual(maxAmount):
			errs = append(errs, validator.ValidationError{Field: a.field, Message: a.field + " is too large"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToSalary builds the record with its totals computed.
func (r *UpsertSalaryRequest) ToSalary() Salary {
	s := Salary{
		UserID: r.UserID,
		Month:  r.Month,
		Year:   r.Year,
		Bank: BankDetails{
			BankName:    r.BankName,
			BankAccount: r.BankAccount,
			IFSCCode:    r.IFSCCode,
			BankBranch:  r.BankBranch,
			PAN:         r.PAN,
		},
		CTC: r.CTC,
		Earnings: Earnings{
			BasicPay:            r.BasicPay,
			HRA:                 r.HRA,
			DA:                  r.DA,
			SpecialAllowance:    r.SpecialAllowance,
			MedicalAllowance:    r.MedicalAllowance,
			ConveyanceAllowance: r.ConveyanceAllowance,
		},
		Deductions: Deductions{
			PF:              r.PF,
			ProfessionalTax: r.ProfessionalTax,
			IncomeTax:       r.IncomeTax,
			Insurance:       r.Insurance,
		},
	}
	s.ComputeTotals()
	return s
}

// SalaryQuery selects one employee's month.
type SalaryQuery struct {
	UserID string
	Period
}

func (q *SalaryQuery) Validate() error {
	if errs := q.Period.normalize(); len(errs) > 0 {
		return errs
	}
	return nil
}

// DepartmentSalaryRequest lists a month's salaries. An empty DepartmentID
// means every department and is only honored for admins.
type DepartmentSalaryRequest struct {
	DepartmentID string
	Period
}

func (r *DepartmentSalaryRequest) Validate() error {
	r.DepartmentID = strings.TrimSpace(r.DepartmentID)
	if errs := r.Period.normalize(); len(errs) > 0 {
		return errs
	}
	return nil
}

// UploadReportRequest is built by the handler from a multipart form.
type UploadReportRequest struct {
	UserID string
	Period

	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

func (r *UploadReportRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)

	errs := r.Period.normalize()
	if r.UserID == "" {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if r.File == nil || r.FileName == "" {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "please select a file"})
	} else if r.Size > storage.MaxUploadSize {
		errs = append(errs, validator.ValidationError{Field: "file", Message: storage.ErrFileTooLarge.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListReportsRequest filters salary reports. Year 0 lists every year.
type ListReportsRequest struct {
	UserID string
	Year   int
}

type EarningsResponse struct {
	BasicPay            string `json:"basic_pay"`
	HRA                 string `json:"hra"`
	DA                  string `json:"da"`
	SpecialAllowance    string `json:"special_allowance"`
	MedicalAllowance    string `json:"medical_allowance"`
	ConveyanceAllowance string `json:"conveyance_allowance"`
}

type DeductionsResponse struct {
	PF              string `json:"pf"`
	ProfessionalTax string `json:"professional_tax"`
	IncomeTax       string `json:"income_tax"`
	Insurance       string `json:"insurance"`
}

type BankDetailsResponse struct {
	BankName    *string `json:"bank_name,omitempty"`
	BankAccount *string `json:"bank_account,omitempty"`
	IFSCCode    *string `json:"ifsc_code,omitempty"`
	BankBranch  *string `json:"bank_branch,omitempty"`
	PAN         *string `json:"pan,omitempty"`
}

type SalaryResponse struct {
	ID              string              `json:"id,omitempty"`
	UserID          string              `json:"user_id"`
	UserName        string              `json:"user_name,omitempty"`
	Designation     *string             `json:"designation,omitempty"`
	Month           string              `json:"month"`
	Year            int                 `json:"year"`
	DepartmentID    *string             `json:"department_id,omitempty"`
	EmployeeCode    *string             `json:"employee_code,omitempty"`
	Bank            BankDetailsResponse `json:"bank"`
	CTC             string              `json:"ctc"`
	Earnings        EarningsResponse    `json:"earnings"`
	Deductions      DeductionsResponse  `json:"deductions"`
	TotalEarnings   string              `json:"total_earnings"`
	TotalDeductions string              `json:"total_deductions"`
	NetSalary       string              `json:"net_salary"`
	UpdatedAt       string              `json:"updated_at,omitempty"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (s Salary) ToResponse() SalaryResponse {
	resp := SalaryResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		UserName:     s.UserName,
		Designation:  s.Designation,
		Month:        s.Month,
		Year:         s.Year,
		DepartmentID: s.DepartmentID,
		EmployeeCode: s.EmployeeCode,
		Bank: BankDetailsResponse{
			BankName:    s.Bank.BankName,
			BankAccount: s.Bank.BankAccount,
			IFSCCode:    s.Bank.IFSCCode,
			BankBranch:  s.Bank.BankBranch,
			PAN:         s.Bank.PAN,
		},
		CTC: money(s.CTC),
		Earnings: EarningsResponse{
			BasicPay:            money(s.Earnings.BasicPay),
			HRA:                 money(s.Earnings.HRA),
			DA:                  money(s.Earnings.DA),
			SpecialAllowance:    money(s.Earnings.SpecialAllowance),
			MedicalAllowance:    money(s.Earnings.MedicalAllowance),
			ConveyanceAllowance: money(s.Earnings.ConveyanceAllowance),
		},
		Deductions: DeductionsResponse{
			PF:              money(s.Deductions.PF),
			ProfessionalTax: money(s.Deductions.ProfessionalTax),
			IncomeTax:       money(s.Deductions.IncomeTax),
			Insurance:       money(s.Deductions.Insurance),
		},
		TotalEarnings:   money(s.TotalEarnings),
		TotalDeductions: money(s.TotalDeductions),
		NetSalary:       money(s.NetSalary),
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// Where a salary template was filled from.
const (
	TemplateCurrent  = "current"
	TemplatePrevious = "previous"
	TemplateEmpty    = "empty"
)

type SalaryTemplateResponse struct {
	Source string         `json:"source"`
	Salary SalaryResponse `json:"salary"`
}

type PayslipEmployee struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	EmployeeCode   *string `json:"employee_code,omitempty"`
	Designation    *string `json:"designation,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
	DateOfJoining  *string `json:"date_of_joining,omitempty"`
}

type PayslipResponse struct {
	Employee         PayslipEmployee `json:"employee"`
	Salary           SalaryResponse  `json:"salary"`
	NetSalaryInWords string          `json:"net_salary_in_words"`
}

type SalaryTotals struct {
	EmployeeCount   int    `json:"employee_count"`
	TotalEarnings   string `json:"total_earnings"`
	TotalDeductions string `json:"total_deductions"`
	NetSalary       string `json:"net_salary"`
}

// Totals sums a set of salaries.
func Totals(salaries []Salary) SalaryTotals {
	earnings, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range salaries {
		earnings = earnings.Add(s.TotalEarnings)
		deductions = deductions.Add(s.TotalDeductions)
		net = net.Add(s.NetSalary)
	}
	return SalaryTotals{
		EmployeeCount:   len(salaries),
		TotalEarnings:   money(earnings),
		TotalDeductions: money(deductions),
		NetSalary:       money(net),
	}
}

type DepartmentSalaryResponse struct {
	DepartmentID string           `json:"department_id,omitempty"`
	Month        string           `json:"month"`
	Year         int              `json:"year"`
	Salaries     []SalaryResponse `json:"salaries"`
	Totals       SalaryTotals     `json:"totals"`
}

type SalaryReportResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Month       string `json:"month"`
	Year        int    `json:"year"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
	UploadedAt  string `json:"uploaded_at"`
}
