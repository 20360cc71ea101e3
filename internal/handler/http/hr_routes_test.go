package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/document"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/leave"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Embedded interfaces panic if a route reaches an unstubbed method.

type fakeOrganizationService struct {
	organization.OrganizationService
	createdDept organization.CreateDepartmentRequest
}

func (f *fakeOrganizationService) ListOrganizations(ctx context.Context) ([]organization.OrganizationResponse, error) {
	return []organization.OrganizationResponse{{ID: "org-1", Name: "AP Maritime Board"}}, nil
}

func (f *fakeOrganizationService) CreateDepartment(ctx context.Context, actor user.Actor, req organization.CreateDepartmentRequest) (organization.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.DepartmentResponse{}, err
	}
	f.createdDept = req
	return organization.DepartmentResponse{ID: "dept-1", OrganizationID: req.OrganizationID, Name: req.Name}, nil
}

func (f *fakeOrganizationService) GetDepartment(ctx context.Context, id string) (organization.DepartmentResponse, error) {
	return organization.DepartmentResponse{}, organization.ErrDepartmentNotFound
}

type fakeEmployeeService struct {
	employee.EmployeeService
	filter employee.EmployeeFilter
	status employee.SetStatusRequest
}

func (f *fakeEmployeeService) List(ctx context.Context, actor user.Actor, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	f.filter = filter
	return employee.ListEmployeeResponse{Employees: []employee.EmployeeResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (f *fakeEmployeeService) SetStatus(ctx context.Context, actor user.Actor, req employee.SetStatusRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.ID == actor.UserID && !*req.IsActive {
		return employee.EmployeeResponse{}, employee.ErrCannotDeactivateSelf
	}
	f.status = req
	return employee.EmployeeResponse{ID: req.ID, IsActive: *req.IsActive}, nil
}

type fakeLeaveService struct {
	leave.LeaveService
	applied     leave.ApplyRequest
	attachment  []byte
	listReq     leave.ListRequest
	listActor   user.Actor
	decided     leave.DecideRequest
	decideActor user.Actor
}

func (f *fakeLeaveService) Apply(ctx context.Context, actor user.Actor, req leave.ApplyRequest) (leave.LeaveApplicationResponse, error) {
	if req.File != nil {
		body, err := io.ReadAll(req.File)
		if err != nil {
			return leave.LeaveApplicationResponse{}, err
		}
		f.attachment = body
	}
	f.applied = req
	return leave.LeaveApplicationResponse{ID: "leave-1", UserID: actor.UserID, Status: leave.StatusPending}, nil
}

func (f *fakeLeaveService) List(ctx context.Context, actor user.Actor, req leave.ListRequest) (leave.ListLeaveResponse, error) {
	f.listReq = req
	f.listActor = actor
	return leave.ListLeaveResponse{Applications: []leave.LeaveApplicationResponse{}}, nil
}

func (f *fakeLeaveService) Decide(ctx context.Context, actor user.Actor, req leave.DecideRequest) (leave.LeaveApplicationResponse, error) {
	f.decided = req
	f.decideActor = actor
	if req.ID == "leave-9" {
		return leave.LeaveApplicationResponse{}, leave.ErrHODApprovalPending
	}
	return leave.LeaveApplicationResponse{ID: req.ID, Status: leave.StatusApproved}, nil
}

func (f *fakeLeaveService) OpenAttachment(ctx context.Context, actor user.Actor, id string) (leave.LeaveApplication, io.ReadCloser, error) {
	if id != "leave-1" {
		return leave.LeaveApplication{}, nil, leave.ErrLeaveNotFound
	}
	data := "%PDF-1.4 medical"
	return leave.LeaveApplication{
		ID:         id,
		Attachment: &leave.Attachment{FileName: "medical.pdf", ContentType: "application/pdf", Size: int64(len(data))},
	}, io.NopCloser(strings.NewReader(data)), nil
}

type fakePayrollService struct {
	payroll.PayrollService
	query    payroll.SalaryQuery
	deptReq  payroll.DepartmentSalaryRequest
	upserted payroll.UpsertSalaryRequest
	uploaded payroll.UploadReportRequest
}

func (f *fakePayrollService) UpsertSalary(ctx context.Context, actor user.Actor, req payroll.UpsertSalaryRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}
	f.upserted = req
	return payroll.SalaryResponse{UserID: req.UserID}, nil
}

func (f *fakePayrollService) Payslip(ctx context.Context, actor user.Actor, q payroll.SalaryQuery) (payroll.PayslipResponse, error) {
	f.query = q
	if q.Month == "" {
		return payroll.PayslipResponse{}, payroll.ErrSalaryNotFound
	}
	return payroll.PayslipResponse{NetSalaryInWords: "Forty Thousand Rupees Only"}, nil
}

func (f *fakePayrollService) DepartmentSalaries(ctx context.Context, actor user.Actor, req payroll.DepartmentSalaryRequest) (payroll.DepartmentSalaryResponse, error) {
	f.deptReq = req
	return payroll.DepartmentSalaryResponse{DepartmentID: req.DepartmentID}, nil
}

func (f *fakePayrollService) UploadReport(ctx context.Context, actor user.Actor, req payroll.UploadReportRequest) (payroll.SalaryReportResponse, error) {
	f.uploaded = req
	return payroll.SalaryReportResponse{ID: "report-1", UserID: req.UserID}, nil
}

type fakeDocumentService struct {
	document.DocumentService
	uploaded  document.UploadRequest
	content   []byte
	responded document.RespondRequest
	respBody  []byte
	listReq   document.ListRequest
}

func (f *fakeDocumentService) Upload(ctx context.Context, actor user.Actor, req document.UploadRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}
	body, err := io.ReadAll(req.File)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	f.uploaded = req
	f.content = body
	return document.DocumentResponse{ID: "doc-1", UserID: actor.UserID, Status: document.StatusPending}, nil
}

func (f *fakeDocumentService) List(ctx context.Context, actor user.Actor, req document.ListRequest) ([]document.DocumentResponse, error) {
	f.listReq = req
	return []document.DocumentResponse{}, nil
}

func (f *fakeDocumentService) Respond(ctx context.Context, actor user.Actor, req document.RespondRequest) (document.DocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}
	if req.File != nil {
		body, err := io.ReadAll(req.File)
		if err != nil {
			return document.DocumentResponse{}, err
		}
		f.respBody = body
	}
	f.responded = req
	return document.DocumentResponse{ID: req.ID, Status: document.Status(req.Status)}, nil
}

func (f *fakeDocumentService) OpenResponse(ctx context.Context, actor user.Actor, id string) (document.Document, io.ReadCloser, error) {
	return document.Document{}, nil, document.ErrResponseFileNotFound
}

type formField struct{ name, value string }

func multipartRequest(t *testing.T, method, target, fileField, fileName string, content []byte, fields ...formField) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f.name, f.value))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// ---- organizations ----

func TestOrganizations(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil), f.token(t, user.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AP Maritime Board")

	body := map[string]string{"name": "Ports", "description": "Port operations"}
	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/organizations/org-1/departments", body), f.token(t, user.RoleDepartmentAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/organizations/org-1/departments", body), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "org-1", f.orgs.createdDept.OrganizationID)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/departments/dept-x", nil), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Department not found", decodeResponse(t, rec).Error.Message)
}

// ---- employees ----

func TestEmployees_List(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/employees?department_id=dept-a&status=inactive&page=2&limit=10", nil), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.employees.filter.DepartmentID)
	assert.Equal(t, "dept-a", *f.employees.filter.DepartmentID)
	assert.Equal(t, "inactive", f.employees.filter.Status)
	assert.Equal(t, 2, f.employees.filter.Page)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/employees?limit=ten", nil), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEmployees_SetStatus(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.token(t, user.RoleAdmin)

	rec := f.do(jsonRequest(http.MethodPatch, "/api/v1/employees/user-7/status", map[string]bool{"is_active": false}), f.token(t, user.RoleDepartmentAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(jsonRequest(http.MethodPatch, "/api/v1/employees/user-7/status", map[string]bool{"is_active": false}), admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Employee deactivated successfully", decodeResponse(t, rec).Message)
	assert.Equal(t, "user-7", f.employees.status.ID)

	rec = f.do(jsonRequest(http.MethodPatch, "/api/v1/employees/user-1/status", map[string]bool{"is_active": false}), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(jsonRequest(http.MethodPatch, "/api/v1/employees/user-7/status", map[string]string{}), admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- leave ----

func TestLeave_ApplyWithAttachment(t *testing.T) {
	f := newRouterFixture(t)
	content := []byte("%PDF-1.4 medical")

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/v1/leave-applications", "attachment", "medical.pdf", content,
		formField{"reason", "Fever"},
		formField{"from_time", "2026-10-20T09:30"},
		formField{"to_time", "2026-10-21T18:00"},
	), f.token(t, user.RoleUser))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Fever", f.leaves.applied.Reason)
	assert.Equal(t, "2026-10-20T09:30", f.leaves.applied.FromTime)
	assert.Equal(t, "medical.pdf", f.leaves.applied.FileName)
	assert.Equal(t, content, f.leaves.attachment)
}

func TestLeave_ApplyWithoutAttachment(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/v1/leave-applications", "attachment", "", nil,
		formField{"reason", "Travel"},
	), f.token(t, user.RoleUser))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Nil(t, f.leaves.applied.File)
	assert.False(t, f.leaves.applied.HasAttachment())
}

func TestLeave_ListAndDecide(t *testing.T) {
	f := newRouterFixture(t)
	hod := f.tokenFor(t, user.User{ID: "hod-1", Role: user.RoleDepartmentAdmin, DepartmentID: strPtr("dept-a")})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/leave-applications", nil), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/leave-applications?status=pending&awaiting_me=true", nil), hod)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.leaves.listReq.AwaitingMe)
	assert.Equal(t, "pending", f.leaves.listReq.Status)
	require.NotNil(t, f.leaves.listActor.DepartmentID)
	assert.Equal(t, "dept-a", *f.leaves.listActor.DepartmentID)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/leave-applications?awaiting_me=maybe", nil), hod)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/leave-applications/leave-1/decision", map[string]string{"action": "approve", "note": "ok"}), hod)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "leave-1", f.leaves.decided.ID)
	assert.Equal(t, "hod-1", f.leaves.decideActor.UserID)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/leave-applications/leave-9/decision", map[string]string{"action": "approve", "note": "ok"}), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLeave_DownloadAttachment(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/leave-applications/leave-1/attachment", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "medical.pdf")
	assert.Equal(t, "%PDF-1.4 medical", rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/leave-applications/leave-2/attachment", nil), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- payroll ----

func TestPayroll_Payslip(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/salaries/payslip?month=October&year=2026", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forty Thousand Rupees Only")
	assert.Equal(t, "October", f.payroll.query.Month)
	assert.Equal(t, 2026, f.payroll.query.Year)
	assert.Empty(t, f.payroll.query.UserID)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/salaries/payslip?year=2026", nil), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/salaries/payslip?month=October&year=last", nil), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPayroll_SalaryWritesAreAdminOnly(t *testing.T) {
	f := newRouterFixture(t)
	body := map[string]any{"user_id": "user-7", "month": "october", "year": 2026, "basic_pay": "30000", "hra": 12000}

	rec := f.do(jsonRequest(http.MethodPut, "/api/v1/salaries", body), f.token(t, user.RoleDepartmentAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(jsonRequest(http.MethodPut, "/api/v1/salaries", body), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "October", f.payroll.upserted.Month)
	assert.Equal(t, "42000.00", f.payroll.upserted.BasicPay.Add(f.payroll.upserted.HRA).StringFixed(2))

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/salaries?department_id=dept-a&month=October&year=2026", nil), f.token(t, user.RoleDepartmentAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dept-a", f.payroll.deptReq.DepartmentID)
}

func TestPayroll_UploadReport(t *testing.T) {
	f := newRouterFixture(t)
	content := []byte("%PDF-1.4 payslip")
	fields := []formField{{"user_id", "user-7"}, {"month", "October"}, {"year", "2026"}}

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/v1/salary-reports", "file", "payslip.pdf", content, fields...), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(multipartRequest(t, http.MethodPost, "/api/v1/salary-reports", "file", "payslip.pdf", content, fields...), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "user-7", f.payroll.uploaded.UserID)
	assert.Equal(t, 2026, f.payroll.uploaded.Year)
	assert.Equal(t, "payslip.pdf", f.payroll.uploaded.FileName)

	rec = f.do(multipartRequest(t, http.MethodPost, "/api/v1/salary-reports", "file", "payslip.pdf", content,
		formField{"year", "twenty"}), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- documents ----

func TestDocuments_Upload(t *testing.T) {
	f := newRouterFixture(t)
	content := []byte("%PDF-1.4 offer")

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/v1/documents", "file", "offer.pdf", content,
		formField{"message", "Signed offer"}), f.token(t, user.RoleUser))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "offer.pdf", f.documents.uploaded.FileName)
	assert.Equal(t, content, f.documents.content)

	rec = f.do(multipartRequest(t, http.MethodPost, "/api/v1/documents", "file", "", nil,
		formField{"message", ""}), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := decodeResponse(t, rec).Error.Details
	assert.Equal(t, "please select a file", details["file"])
	assert.Equal(t, "please enter a message", details["message"])
}

func TestDocuments_UploadTooLarge(t *testing.T) {
	f := newRouterFixture(t)
	big := bytes.Repeat([]byte("a"), storage.MaxUploadSize+multipartOverhead+1)

	rec := f.do(multipartRequest(t, http.MethodPost, "/api/v1/documents", "file", "big.pdf", big,
		formField{"message", "big"}), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decodeResponse(t, rec).Error.Code)
}

func TestDocuments_AdminReview(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.token(t, user.RoleAdmin)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil), f.token(t, user.RoleDepartmentAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents?start_date=2026-10-01&end_date=2026-10-15&search=asha", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-10-01", f.documents.listReq.StartDate)
	assert.Equal(t, "asha", f.documents.listReq.Search)

	reply := []byte("%PDF-1.4 countersigned")
	rec = f.do(multipartRequest(t, http.MethodPost, "/api/v1/documents/doc-1/response", "file", "countersigned.pdf", reply,
		formField{"message", "Countersigned"}), admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "doc-1", f.documents.responded.ID)
	assert.Equal(t, "approved", f.documents.responded.Status)
	assert.Equal(t, reply, f.documents.respBody)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/documents/doc-2/response", map[string]string{"status": "rejected", "message": "Unsigned"}), admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "rejected", f.documents.responded.Status)
	assert.Nil(t, f.documents.responded.File)
}

func TestDocuments_ResponseFileMissing(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/response/download", nil), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func strPtr(s string) *string { return &s }
