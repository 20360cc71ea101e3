package employee

import (
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type EmploymentType string

const (
	EmploymentTypeRegular     EmploymentType = "regular"
	EmploymentTypeContract    EmploymentType = "contract"
	EmploymentTypeOutsourcing EmploymentType = "outsourcing"
)

func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentTypeRegular, EmploymentTypeContract, EmploymentTypeOutsourcing:
		return true
	}
	return false
}

// HasContractEnd reports whether a contract end date applies to the type.
func (t EmploymentType) HasContractEnd() bool {
	return t == EmploymentTypeContract || t == EmploymentTypeOutsourcing
}

// Employee is a user together with the HR profile kept on the users row.
type Employee struct {
	ID               string
	Email            string
	Name             string
	Designation      *string
	Role             user.Role
	IsActive         bool
	EmployeeCode     *string
	EmploymentType   EmploymentType
	DateOfJoining    *time.Time
	ContractEndDate  *time.Time
	WorkLocation     *string
	Phone            *string
	EmergencyContact *string
	BloodGroup       *string
	Education        *string
	Address          *string
	Aadhaar          *string
	OrganizationID   *string
	DepartmentID     *string
	StatusUpdatedAt  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	OrganizationName *string
	DepartmentName   *string
	Bank             *BankDetails
}

// BankDetails come from the employee's most recent salary record.
type BankDetails struct {
	BankName    *string
	BankAccount *string
	IFSCCode    *string
	BankBranch  *string
	PAN         *string
}
