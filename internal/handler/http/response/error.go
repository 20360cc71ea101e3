package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/auth"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/document"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/invitation"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/leave"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/notice"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/weeklyreport"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// errorMapping sends every error matching one of errs to status/code. An
// empty message means err.Error() is shown to the client.
type errorMapping struct {
	errs    []error
	status  int
	code    string
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	// Attendance
	{errs: []error{attendance.ErrInvalidTransition}, status: http.StatusBadRequest, code: CodeInvalidTransition},
	{errs: []error{attendance.ErrLocation}, status: http.StatusBadRequest, code: CodeLocation},
	{errs: []error{attendance.ErrAttendanceConflict}, status: http.StatusConflict, code: CodeConflict},
	{errs: []error{attendance.ErrAttendanceNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Attendance record not found"},
	{errs: []error{attendance.ErrUnauthorized}, status: http.StatusForbidden, code: CodeForbidden},

	// Auth
	{errs: []error{auth.ErrInvalidCredentials, auth.ErrRefreshTokenMissing}, status: http.StatusUnauthorized, code: CodeUnauthorized},
	{errs: []error{auth.ErrInvalidToken}, status: http.StatusUnauthorized, code: CodeUnauthorized, message: "Invalid or expired token"},
	{errs: []error{auth.ErrRefreshTokenRevoked}, status: http.StatusUnauthorized, code: CodeUnauthorized, message: "Refresh token revoked"},
	{errs: []error{auth.ErrWrongPassword, auth.ErrSamePassword}, status: http.StatusBadRequest, code: CodeBadRequest},

	// User
	{errs: []error{user.ErrUserNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "User not found"},
	{errs: []error{user.ErrUserEmailExists}, status: http.StatusConflict, code: CodeConflict},
	{errs: []error{user.ErrUserInactive, user.ErrAdminPrivilegeRequired, user.ErrInsufficientPermissions}, status: http.StatusForbidden, code: CodeForbidden},

	// Invitation
	{errs: []error{invitation.ErrInvitationNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Invitation not found"},
	{errs: []error{invitation.ErrInvitationExpired, invitation.ErrInvitationAlreadyUsed}, status: http.StatusGone, code: CodeGone},
	{errs: []error{invitation.ErrEmailAlreadyInvited, invitation.ErrEmailAlreadyMember}, status: http.StatusConflict, code: CodeConflict},

	// Weekly report
	{errs: []error{weeklyreport.ErrReportEmpty}, status: http.StatusBadRequest, code: CodeBadRequest},

	// Notice
	{errs: []error{notice.ErrNoticeNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Notice not found"},
	{errs: []error{notice.ErrFileRequired, notice.ErrDescriptionMissing}, status: http.StatusBadRequest, code: CodeBadRequest},

	// Organization
	{errs: []error{organization.ErrOrganizationNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Organization not found"},
	{errs: []error{organization.ErrDepartmentNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Department not found"},
	{errs: []error{organization.ErrOrganizationNameExists, organization.ErrDepartmentNameExists}, status: http.StatusConflict, code: CodeConflict},

	// Employee
	{errs: []error{employee.ErrEmployeeNotFound, payroll.ErrEmployeeNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Employee not found"},
	{errs: []error{employee.ErrEmployeeCodeExists, employee.ErrEmployeeAlreadyActive, employee.ErrEmployeeAlreadyInactive}, status: http.StatusConflict, code: CodeConflict},
	{errs: []error{employee.ErrCannotDeactivateSelf}, status: http.StatusBadRequest, code: CodeBadRequest},

	// Leave
	{errs: []error{leave.ErrLeaveNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Leave application not found"},
	{errs: []error{leave.ErrAttachmentNotFound}, status: http.StatusNotFound, code: CodeNotFound},
	{errs: []error{leave.ErrLeaveAlreadyProcessed, leave.ErrHODApprovalPending}, status: http.StatusConflict, code: CodeConflict},
	{errs: []error{leave.ErrCannotDecideOwn}, status: http.StatusForbidden, code: CodeForbidden},

	// Payroll
	{errs: []error{payroll.ErrSalaryNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Salary record not found"},
	{errs: []error{payroll.ErrSalaryReportNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Salary report not found"},

	// Document
	{errs: []error{document.ErrDocumentNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "Document not found"},
	{errs: []error{document.ErrResponseFileNotFound}, status: http.StatusNotFound, code: CodeNotFound},
	{errs: []error{document.ErrDocumentAlreadyReviewed}, status: http.StatusConflict, code: CodeConflict},
	{errs: []error{document.ErrFileRequired, document.ErrMessageRequired}, status: http.StatusBadRequest, code: CodeBadRequest},

	// Uploads, after the domain not-found errors that wrap a missing object
	{errs: []error{storage.ErrFileNotFound}, status: http.StatusNotFound, code: CodeNotFound, message: "File not found"},
	{errs: []error{storage.ErrFileTooLarge}, status: http.StatusRequestEntityTooLarge, code: CodeFileTooLarge},
	{errs: []error{storage.ErrInvalidFileType}, status: http.StatusBadRequest, code: CodeBadRequest},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var rangeErr *attendance.RangeError
	if errors.As(err, &rangeErr) {
		Error(w, http.StatusForbidden, CodeOutOfRange, rangeErr.Error(), map[string]string{
			"distance_meters": strconv.FormatInt(rangeErr.RoundedMeters(), 10),
		})
		return
	}

	for _, m := range errorMappings {
		for _, target := range m.errs {
			if !errors.Is(err, target) {
				continue
			}
			message := m.message
			if message == "" {
				message = err.Error()
			}
			Error(w, m.status, m.code, message, nil)
			return
		}
	}

	slog.Error("unhandled error", "error", err)
	Error(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
}
