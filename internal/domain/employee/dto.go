package employee

import (
	"regexp"
	"strings"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// EmployeeFilter narrows the employee directory. Search matches name, email
// and employee code.
type EmployeeFilter struct {
	DepartmentID   *string `json:"department_id,omitempty"`
	EmploymentType string  `json:"employment_type,omitempty" validate:"omitempty,oneof=regular contract outsourcing"`
	Status         string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Search         string  `json:"search,omitempty" validate:"max=100"`

	Page  int `json:"page" validate:"min=0"`
	Limit int `json:"limit" validate:"min=0,max=100"`
}

func (f *EmployeeFilter) Validate() error {
	f.Search = strings.TrimSpace(f.Search)
	if err := validator.Struct(f); err != nil {
		return err
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	return nil
}

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	phonePattern   = regexp.MustCompile(`^\+?\d{10,13}$`)
)

// UpdateEmployeeRequest changes only the fields that are set. An empty
// DepartmentID removes the employee from their department.
type UpdateEmployeeRequest struct {
	ID               string  `json:"-"`
	Name             *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Designation      *string `json:"designation,omitempty" validate:"omitempty,max=100"`
	Role             *string `json:"role,omitempty" validate:"omitempty,oneof=admin department_admin user"`
	EmployeeCode     *string `json:"employee_code,omitempty" validate:"omitempty,max=32"`
	EmploymentType   *string `json:"employment_type,omitempty" validate:"omitempty,oneof=regular contract outsourcing"`
	DateOfJoining    *string `json:"date_of_joining,omitempty"`
	ContractEndDate  *string `json:"contract_end_date,omitempty"`
	WorkLocation     *string `json:"work_location,omitempty" validate:"omitempty,max=100"`
	Phone            *string `json:"phone,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty" validate:"omitempty,max=100"`
	BloodGroup       *string `json:"blood_group,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Education        *string `json:"education,omitempty" validate:"omitempty,max=200"`
	Address          *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Aadhaar          *string `json:"aadhaar,omitempty"`
	DepartmentID     *string `json:"department_id,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.Name != nil && *r.Name == "" {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	for field, value := range map[string]*string{"date_of_joining": r.DateOfJoining, "contract_end_date": r.ContractEndDate} {
		if value == nil || *value == "" {
			continue
		}
		if _, ok := validator.IsValidDate(*value); !ok {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be in YYYY-MM-DD format"})
		}
	}
	if r.Phone != nil && *r.Phone != "" && !phonePattern.MatchString(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone must be 10 to 13 digits"})
	}
	if r.Aadhaar != nil && *r.Aadhaar != "" && !aadhaarPattern.MatchString(*r.Aadhaar) {
		errs = append(errs, validator.ValidationError{Field: "aadhaar", Message: "aadhaar must be exactly 12 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetStatusRequest struct {
	ID       string `json:"-"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

func (r *SetStatusRequest) Validate() error {
	return validator.Struct(r)
}

type BankDetailsResponse struct {
	BankName    *string `json:"bank_name,omitempty"`
	BankAccount *string `json:"bank_account,omitempty"`
	IFSCCode    *string `json:"ifsc_code,omitempty"`
	BankBranch  *string `json:"bank_branch,omitempty"`
	PAN         *string `json:"pan,omitempty"`
}

type EmployeeResponse struct {
	ID               string               `json:"id"`
	Email            string               `json:"email"`
	Name             string               `json:"name"`
	Designation      *string              `json:"designation,omitempty"`
	Role             user.Role            `json:"role"`
	IsActive         bool                 `json:"is_active"`
	EmployeeCode     *string              `json:"employee_code,omitempty"`
	EmploymentType   EmploymentType       `json:"employment_type"`
	DateOfJoining    *string              `json:"date_of_joining,omitempty"`
	ContractEndDate  *string              `json:"contract_end_date,omitempty"`
	WorkLocation     *string              `json:"work_location,omitempty"`
	Phone            *string              `json:"phone,omitempty"`
	EmergencyContact *string              `json:"emergency_contact,omitempty"`
	BloodGroup       *string              `json:"blood_group,omitempty"`
	Education        *string              `json:"education,omitempty"`
	Address          *string              `json:"address,omitempty"`
	Aadhaar          *string              `json:"aadhaar,omitempty"`
	OrganizationID   *string              `json:"organization_id,omitempty"`
	OrganizationName *string              `json:"organization_name,omitempty"`
	DepartmentID     *string              `json:"department_id,omitempty"`
	DepartmentName   *string              `json:"department_name,omitempty"`
	Bank             *BankDetailsResponse `json:"bank,omitempty"`
	StatusUpdatedAt  *string              `json:"status_updated_at,omitempty"`
	CreatedAt        string               `json:"created_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func (e Employee) ToResponse() EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID,
		Email:            e.Email,
		Name:             e.Name,
		Designation:      e.Designation,
		Role:             e.Role,
		IsActive:         e.IsActive,
		EmployeeCode:     e.EmployeeCode,
		EmploymentType:   e.EmploymentType,
		DateOfJoining:    formatDate(e.DateOfJoining),
		ContractEndDate:  formatDate(e.ContractEndDate),
		WorkLocation:     e.WorkLocation,
		Phone:            e.Phone,
		EmergencyContact: e.EmergencyContact,
		BloodGroup:       e.BloodGroup,
		Education:        e.Education,
		Address:          e.Address,
		Aadhaar:          e.Aadhaar,
		OrganizationID:   e.OrganizationID,
		OrganizationName: e.OrganizationName,
		DepartmentID:     e.DepartmentID,
		DepartmentName:   e.DepartmentName,
		CreatedAt:        e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if e.StatusUpdatedAt != nil {
		s := e.StatusUpdatedAt.Format("2006-01-02 15:04:05")
		resp.StatusUpdatedAt = &s
	}
	if e.Bank != nil {
		resp.Bank = &BankDetailsResponse{
			BankName:    e.Bank.BankName,
			BankAccount: e.Bank.BankAccount,
			IFSCCode:    e.Bank.IFSCCode,
			BankBranch:  e.Bank.BankBranch,
			PAN:         e.Bank.PAN,
		}
	}
	return resp
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

// DepartmentHead is the contact shown on an employee's profile.
type DepartmentHead struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProfileResponse struct {
	Employee        EmployeeResponse `json:"employee"`
	DepartmentHeads []DepartmentHead `json:"department_heads"`
}
