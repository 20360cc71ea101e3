package document

import (
	"io"
	"strings"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// Upload is a file taken from a multipart form.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

func (u Upload) Present() bool {
	return u.File != nil && u.FileName != ""
}

func (u Upload) validate(required bool, errs *validator.ValidationErrors) {
	switch {
	case !u.Present():
		if required {
			*errs = append(*errs, validator.ValidationError{Field: "file", Message: ErrFileRequired.Error()})
		}
	case u.Size > storage.MaxUploadSize:
		*errs = append(*errs, validator.ValidationError{Field: "file", Message: storage.ErrFileTooLarge.Error()})
	}
}

type UploadRequest struct {
	Upload
	Message string
}

func (r *UploadRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)

	var errs validator.ValidationErrors
	r.Upload.validate(true, &errs)
	if r.Message == "" {
		errs = append(errs, validator.ValidationError{Field: "message", Message: ErrMessageRequired.Error()})
	} else if len([]rune(r.Message)) > 500 {
		errs = append(errs, validator.ValidationError{Field: "message", Message: "message must not exceed 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListRequest filters the admin listing. Dates are YYYY-MM-DD in the office
// time zone and both ends are inclusive.
type ListRequest struct {
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Search       string `json:"search,omitempty" validate:"max=100"`
}

// ToFilter validates r and converts it for the repository.
func (r *ListRequest) ToFilter(loc *time.Location) (ListFilter, error) {
	r.Search = strings.TrimSpace(r.Search)
	if err := validator.Struct(r); err != nil {
		return ListFilter{}, err
	}

	var f ListFilter
	var errs validator.ValidationErrors
	if r.StartDate != "" {
		if d, ok := validator.IsValidDate(r.StartDate); ok {
			from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
			f.From = &from
		} else {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if r.EndDate != "" {
		if d, ok := validator.IsValidDate(r.EndDate); ok {
			to := time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
			f.To = &to
		} else {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	if len(errs) > 0 {
		return ListFilter{}, errs
	}

	if r.DepartmentID != "" {
		f.DepartmentID = &r.DepartmentID
	}
	if r.Status != "" {
		st := Status(r.Status)
		f.Status = &st
	}
	f.Search = r.Search
	return f, nil
}

// RespondRequest reviews a document. The response file is optional.
type RespondRequest struct {
	ID      string
	Status  string
	Message string
	Upload
}

func (r *RespondRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = string(StatusApproved)
	}

	var errs validator.ValidationErrors
	if r.Status != string(StatusApproved) && r.Status != string(StatusRejected) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: approved, rejected"})
	}
	if r.Message == "" {
		errs = append(errs, validator.ValidationError{Field: "message", Message: ErrMessageRequired.Error()})
	} else if len([]rune(r.Message)) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "message", Message: "message must not exceed 1000 characters"})
	}
	r.Upload.validate(false, &errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type FileResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
}

type ResponseResponse struct {
	Message     *string       `json:"message,omitempty"`
	File        *FileResponse `json:"file,omitempty"`
	RespondedBy *string       `json:"responded_by,omitempty"`
	RespondedAt *string       `json:"responded_at,omitempty"`
}

type DocumentResponse struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	UserName       string            `json:"user_name"`
	UserEmail      string            `json:"user_email"`
	DepartmentID   *string           `json:"department_id,omitempty"`
	DepartmentName *string           `json:"department_name,omitempty"`
	File           FileResponse      `json:"file"`
	Message        string            `json:"message"`
	Status         Status            `json:"status"`
	Response       *ResponseResponse `json:"response,omitempty"`
	UploadedAt     string            `json:"uploaded_at"`
}
