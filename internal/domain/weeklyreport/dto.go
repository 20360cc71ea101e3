package weeklyreport

import (
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

const MaxReportLength = 5000

type SubmitRequest struct {
	Report string `json:"report"`
}

func (r *SubmitRequest) Validate() error {
	r.Report = strings.TrimSpace(r.Report)

	var errs validator.ValidationErrors
	if r.Report == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "report",
			Message: ErrReportEmpty.Error(),
		})
	} else if len([]rune(r.Report)) > MaxReportLength {
		errs = append(errs, validator.ValidationError{
			Field:   "report",
			Message: "report must not exceed 5000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows a report listing. Month and Year are optional; Search
// matches the report text or the author's name.
type ListFilter struct {
	Month  string  `json:"month,omitempty"`
	Year   int     `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
	UserID *string `json:"user_id,omitempty"`
	Search string  `json:"search,omitempty" validate:"max=100"`

	DepartmentID *string `json:"-"`
}

func (f *ListFilter) Validate() error {
	f.Search = strings.TrimSpace(f.Search)
	if err := validator.Struct(f); err != nil {
		return err
	}
	if f.Month != "" {
		m, ok := validator.ParseMonthName(f.Month)
		if !ok {
			return validator.ValidationErrors{{
				Field:   "month",
				Message: "month must be a full English month name",
			}}
		}
		f.Month = m.String()
	}
	return nil
}

type WeeklyReportResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	UserName    *string `json:"user_name,omitempty"`
	Report      string  `json:"report"`
	WeekEnding  string  `json:"week_ending"`
	SubmittedAt string  `json:"submitted_at"`
	Month       string  `json:"month"`
	Year        int     `json:"year"`
}
