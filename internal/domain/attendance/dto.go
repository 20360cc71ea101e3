package attendance

import (
	"context"
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// ========================================
// SUBMIT DTOs
// ========================================

// Locator acquires the caller's current position. Implementations return one
// of ErrLocationPermissionDenied, ErrLocationUnavailable or ErrLocationTimeout
// when no position can be obtained.
type Locator interface {
	Locate(ctx context.Context) (geo.GeoPoint, error)
}

type SubmitRequest struct {
	Action  Action  `json:"action" validate:"required,oneof=start end ooo"`
	Locator Locator `json:"-" validate:"-"`
}

func (r *SubmitRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	if r.Action.RequiresLocation() && r.Locator == nil {
		return validator.ValidationErrors{{
			Field:   "location",
			Message: "location is required to mark work start or end",
		}}
	}

	return nil
}

// Location failure codes reported by the client when the device could not
// produce a position.
const (
	LocationErrorPermissionDenied = "permission_denied"
	LocationErrorUnavailable      = "unavailable"
	LocationErrorTimeout          = "timeout"
)

// ReportedLocation is the position (or the failure) the client device reported.
type ReportedLocation struct {
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	LocationError string   `json:"location_error,omitempty" validate:"omitempty,oneof=permission_denied unavailable timeout"`
}

// Locate implements Locator.
func (r ReportedLocation) Locate(ctx context.Context) (geo.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return geo.GeoPoint{}, ErrLocationTimeout
	}

	switch r.LocationError {
	case LocationErrorPermissionDenied:
		return geo.GeoPoint{}, ErrLocationPermissionDenied
	case LocationErrorTimeout:
		return geo.GeoPoint{}, ErrLocationTimeout
	case LocationErrorUnavailable:
		return geo.GeoPoint{}, ErrLocationUnavailable
	}

	if r.Latitude == nil || r.Longitude == nil {
		return geo.GeoPoint{}, ErrLocationUnavailable
	}

	return geo.GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}, nil
}

// SubmitAttendanceBody is the JSON body of POST /attendance.
type SubmitAttendanceBody struct {
	Action Action `json:"action" validate:"required,oneof=start end ooo"`
	ReportedLocation
}

func (b *SubmitAttendanceBody) Validate() error {
	return validator.Struct(b)
}

// ToRequest drops the reported location for actions that do not need one.
func (b SubmitAttendanceBody) ToRequest() SubmitRequest {
	req := SubmitRequest{Action: b.Action}
	if b.Action.RequiresLocation() {
		req.Locator = b.ReportedLocation
	}
	return req
}

type AttendanceResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	UserName  string              `json:"user_name,omitempty"`
	Date      string              `json:"date"`
	Month     string              `json:"month"`
	StartTime *string             `json:"start_time,omitempty"`
	EndTime   *string             `json:"end_time,omitempty"`
	Location  *geo.OfficeLocation `json:"location,omitempty"`
	Status    Status              `json:"status"`
	State     State               `json:"state"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

type SubmitResponse struct {
	Attendance     AttendanceResponse        `json:"attendance"`
	Office         string                    `json:"office,omitempty"`
	DistanceMeters *float64                  `json:"distance_meters,omitempty"`
	Message        string                    `json:"message"`
	Advisory       calendar.AdvisoryResponse `json:"advisory"`
}

// ========================================
// STATUS & HISTORY DTOs
// ========================================

type TodayStatusResponse struct {
	Date       string                    `json:"date"`
	State      State                     `json:"state"`
	Attendance *AttendanceResponse       `json:"attendance,omitempty"`
	CanStart   bool                      `json:"can_start"`
	CanEnd     bool                      `json:"can_end"`
	CanMarkOOO bool                      `json:"can_mark_ooo"`
	Advisory   calendar.AdvisoryResponse `json:"advisory"`
}

// MyAttendanceFilter selects one calendar month of the caller's history.
// Empty fields default to the current month and year.
type MyAttendanceFilter struct {
	Month string `json:"month,omitempty"` // English month name, e.g. "October"
	Year  int    `json:"year,omitempty"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != "" {
		if _, ok := validator.ParseMonthName(f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be a full English month name such as October",
			})
		}
	}

	if f.Year != 0 && (f.Year < 2000 || f.Year > 9999) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 9999",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceResponse struct {
	Month       string               `json:"month"`
	Year        int                  `json:"year"`
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type AttendanceFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// DepartmentID scopes the report for department admins. It is never
	// taken from the request.
	DepartmentID *string `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(strings.ToLower(*f.Status)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, ooo",
		})
	}

	var startOK, endOK bool
	if f.StartDate != nil && *f.StartDate != "" {
		if _, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	// ISO dates compare correctly as strings
	if startOK && endOK && *f.StartDate > *f.EndDate {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
