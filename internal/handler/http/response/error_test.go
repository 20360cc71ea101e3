package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

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
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleError_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "action", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"transition", attendance.ErrAlreadyStarted, http.StatusBadRequest, "INVALID_TRANSITION"},
		{"location", attendance.ErrLocationPermissionDenied, http.StatusBadRequest, "LOCATION_ERROR"},
		{"conflict", attendance.ErrAttendanceConflict, http.StatusConflict, "CONFLICT"},
		{"wrapped not found", fmt.Errorf("get: %w", attendance.ErrAttendanceNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"revoked", auth.ErrRefreshTokenRevoked, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"inactive", user.ErrUserInactive, http.StatusForbidden, "FORBIDDEN"},
		{"admin only", user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{"invitation used", invitation.ErrInvitationAlreadyUsed, http.StatusGone, "GONE"},
		{"already invited", invitation.ErrEmailAlreadyInvited, http.StatusConflict, "CONFLICT"},
		{"file too large", notice.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"file type", notice.ErrInvalidFileType, http.StatusBadRequest, "BAD_REQUEST"},
		{"image too large", fmt.Errorf("upload: %w", storage.ErrFileTooLarge), http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"attachment type", fmt.Errorf("%w, please upload PDF, Word, PNG or JPEG files only", storage.ErrInvalidFileType), http.StatusBadRequest, "BAD_REQUEST"},
		{"department name taken", organization.ErrDepartmentNameExists, http.StatusConflict, "CONFLICT"},
		{"self deactivation", employee.ErrCannotDeactivateSelf, http.StatusBadRequest, "BAD_REQUEST"},
		{"hod pending", leave.ErrHODApprovalPending, http.StatusConflict, "CONFLICT"},
		{"own leave", leave.ErrCannotDecideOwn, http.StatusForbidden, "FORBIDDEN"},
		{"salary missing", payroll.ErrSalaryNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"salary employee missing", payroll.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"document reviewed", document.ErrDocumentAlreadyReviewed, http.StatusConflict, "CONFLICT"},
		{"no response file", document.ErrResponseFileNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_OutOfRangeCarriesDistance(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("submit: %w", &attendance.RangeError{DistanceMeters: 523.4}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "OUT_OF_RANGE", resp.Error.Code)
	assert.Equal(t, "523", resp.Error.Details["distance_meters"])
	assert.Contains(t, resp.Error.Message, "523m")

	rec = httptest.NewRecorder()
	HandleError(rec, &attendance.RangeError{DistanceMeters: math.Inf(1)})
	resp = decode(t, rec)
	assert.Equal(t, "-1", resp.Error.Details["distance_meters"])
}

func TestHandleError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	resp := decode(t, rec)
	assert.NotContains(t, resp.Error.Message, "password")
}

func TestHandleError_NotFoundMessages(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{notice.ErrNoticeNotFound, "Notice not found"},
		{fmt.Errorf("open: %w", storage.ErrFileNotFound), "File not found"},
		{leave.ErrLeaveNotFound, "Leave application not found"},
		{document.ErrDocumentNotFound, "Document not found"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		HandleError(rec, tt.err)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, tt.message, decode(t, rec).Error.Message)
	}
}

func TestHandleError_InvalidFileTypeKeepsAcceptedFormats(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("%w, please upload PDF or Word documents only", storage.ErrInvalidFileType))

	assert.Equal(t, "invalid file type, please upload PDF or Word documents only", decode(t, rec).Error.Message)
}
