package invitation

import (
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Email        string    `json:"email" validate:"required,email,max=254"`
	Name         string    `json:"name" validate:"required,max=255"`
	Designation  string    `json:"designation" validate:"required,max=255"`
	Role         user.Role `json:"role,omitempty" validate:"omitempty,oneof=admin department_admin user"`
	DepartmentID *string   `json:"department_id,omitempty" validate:"omitempty,max=64"`
}

func (r *CreateRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.Designation = strings.TrimSpace(r.Designation)
	if r.Role == "" {
		r.Role = user.RoleUser
	}
	if err := validator.Struct(r); err != nil {
		return err
	}

	if r.Role == user.RoleDepartmentAdmin && (r.DepartmentID == nil || validator.IsEmpty(*r.DepartmentID)) {
		return validator.ValidationErrors{{
			Field:   "department_id",
			Message: "department_id is required for department admins",
		}}
	}

	return nil
}

type InvitationResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Designation      string    `json:"designation"`
	Role             user.Role `json:"role"`
	DepartmentID     *string   `json:"department_id,omitempty"`
	Status           Status    `json:"status"`
	RegistrationLink string    `json:"registration_link,omitempty"`
	EmailSent        *bool     `json:"email_sent,omitempty"`
	ExpiresAt        string    `json:"expires_at"`
	CreatedAt        string    `json:"created_at"`
}
