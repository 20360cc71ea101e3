package organization

import (
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

type CreateOrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
}

func (r *CreateOrganizationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	return validator.Struct(r)
}

// UpdateOrganizationRequest changes only the fields that are set.
type UpdateOrganizationRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateOrganizationRequest) Validate() error {
	return validatePatch(r.Name, r.Description)
}

type CreateDepartmentRequest struct {
	OrganizationID string `json:"-"`
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"required,max=500"`
}

func (r *CreateDepartmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	return validator.Struct(r)
}

type UpdateDepartmentRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	return validatePatch(r.Name, r.Description)
}

func validatePatch(name, description *string) error {
	var errs validator.ValidationErrors

	if name != nil {
		*name = strings.TrimSpace(*name)
		if *name == "" {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
		} else if len([]rune(*name)) > 100 {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
		}
	}
	if description != nil {
		*description = strings.TrimSpace(*description)
		if *description == "" {
			errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not be empty"})
		} else if len([]rune(*description)) > 500 {
			errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not exceed 500 characters"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OrganizationResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Departments []DepartmentResponse `json:"departments"`
	CreatedAt   string               `json:"created_at"`
}

type DepartmentResponse struct {
	ID               string  `json:"id"`
	OrganizationID   string  `json:"organization_id"`
	OrganizationName *string `json:"organization_name,omitempty"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	UserCount        int     `json:"user_count"`
	CreatedAt        string  `json:"created_at"`
}

func (o Organization) ToResponse(departments []Department) OrganizationResponse {
	resp := OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Departments: make([]DepartmentResponse, 0, len(departments)),
		CreatedAt:   o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, d := range departments {
		resp.Departments = append(resp.Departments, d.ToResponse())
	}
	return resp
}

func (d Department) ToResponse() DepartmentResponse {
	return DepartmentResponse{
		ID:               d.ID,
		OrganizationID:   d.OrganizationID,
		OrganizationName: d.OrganizationName,
		Name:             d.Name,
		Description:      d.Description,
		UserCount:        d.UserCount,
		CreatedAt:        d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
