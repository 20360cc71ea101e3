package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/config"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/auth"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/invitation"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/notice"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/weeklyreport"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/jwt"
	calendarService "github.com/apmb-hris/hrms-backend-go/internal/service/calendar"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAttendanceService struct {
	submitted []attendance.SubmitRequest
	submitErr error
	actor     user.Actor
}

func (f *fakeAttendanceService) Submit(ctx context.Context, actor user.Actor, req attendance.SubmitRequest) (attendance.SubmitResponse, error) {
	f.actor = actor
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return attendance.SubmitResponse{}, f.submitErr
	}
	if req.Locator != nil {
		if _, err := req.Locator.Locate(ctx); err != nil {
			return attendance.SubmitResponse{}, err
		}
	}
	return attendance.SubmitResponse{
		Attendance: attendance.AttendanceResponse{UserID: actor.UserID, State: attendance.StateStarted},
		Office:     "Mangalagiri",
		Message:    "Work start time marked successfully",
	}, nil
}

func (f *fakeAttendanceService) GetTodayStatus(ctx context.Context, actor user.Actor) (attendance.TodayStatusResponse, error) {
	return attendance.TodayStatusResponse{Date: "2025-10-14", State: attendance.StateNone, CanStart: true, CanMarkOOO: true}, nil
}

func (f *fakeAttendanceService) GetMyAttendance(ctx context.Context, actor user.Actor, filter attendance.MyAttendanceFilter) (attendance.MyAttendanceResponse, error) {
	return attendance.MyAttendanceResponse{Month: filter.Month, Year: filter.Year}, nil
}

func (f *fakeAttendanceService) ListAttendance(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return attendance.ListAttendanceResponse{Page: filter.Page, Limit: filter.Limit}, nil
}

func (f *fakeAttendanceService) GetAttendance(ctx context.Context, actor user.Actor, id string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
}

type fakeAuthService struct {
	loggedOut  []string
	refreshed  []string
	loginErr   error
	registered auth.RegisterRequest
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh-1", RefreshTokenExpiresIn: time.Now().Add(time.Hour).Unix()}, nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	f.refreshed = append(f.refreshed, req.RefreshToken)
	return auth.AccessTokenResponse{AccessToken: "access-2"}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.registered = req
	return auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh-new"}, nil
}

func (f *fakeAuthService) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	return user.UserResponse{ID: actor.UserID, Email: actor.Email, Role: actor.Role}, nil
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, actor user.Actor, req auth.ChangePasswordRequest) error {
	return nil
}

type fakeInvitationService struct{ created []invitation.CreateRequest }

func (f *fakeInvitationService) CreateAndSend(ctx context.Context, actor user.Actor, req invitation.CreateRequest) (invitation.InvitationResponse, error) {
	f.created = append(f.created, req)
	sent := false
	return invitation.InvitationResponse{Email: req.Email, EmailSent: &sent}, nil
}

func (f *fakeInvitationService) GetForRegistration(ctx context.Context, id string) (invitation.InvitationResponse, error) {
	return invitation.InvitationResponse{}, invitation.ErrInvitationExpired
}

func (f *fakeInvitationService) ListPending(ctx context.Context, actor user.Actor) ([]invitation.InvitationResponse, error) {
	return []invitation.InvitationResponse{}, nil
}

type fakeWeeklyReportService struct{ listFilter weeklyreport.ListFilter }

func (f *fakeWeeklyReportService) Submit(ctx context.Context, actor user.Actor, req weeklyreport.SubmitRequest) (weeklyreport.WeeklyReportResponse, error) {
	if err := req.Validate(); err != nil {
		return weeklyreport.WeeklyReportResponse{}, err
	}
	return weeklyreport.WeeklyReportResponse{}, nil
}

func (f *fakeWeeklyReportService) ListMine(ctx context.Context, actor user.Actor, filter weeklyreport.ListFilter) ([]weeklyreport.WeeklyReportResponse, error) {
	f.listFilter = filter
	return []weeklyreport.WeeklyReportResponse{}, nil
}

func (f *fakeWeeklyReportService) List(ctx context.Context, actor user.Actor, filter weeklyreport.ListFilter) ([]weeklyreport.WeeklyReportResponse, error) {
	f.listFilter = filter
	return []weeklyreport.WeeklyReportResponse{}, nil
}

type fakeNoticeService struct {
	uploaded notice.UploadRequest
	content  []byte
	deleted  []string
}

func (f *fakeNoticeService) Upload(ctx context.Context, actor user.Actor, req notice.UploadRequest) (notice.NoticeResponse, error) {
	if err := req.Validate(); err != nil {
		return notice.NoticeResponse{}, err
	}
	body, err := io.ReadAll(req.File)
	if err != nil {
		return notice.NoticeResponse{}, err
	}
	f.uploaded = req
	f.content = body
	return notice.NoticeResponse{ID: "n-1", FileName: req.FileName}, nil
}

func (f *fakeNoticeService) List(ctx context.Context) ([]notice.NoticeResponse, error) {
	return []notice.NoticeResponse{}, nil
}

func (f *fakeNoticeService) Open(ctx context.Context, id string) (notice.Notice, io.ReadCloser, error) {
	if id != "n-1" {
		return notice.Notice{}, nil, notice.ErrNoticeNotFound
	}
	data := "%PDF-1.4 circular"
	return notice.Notice{ID: id, FileName: "Diwali circular.pdf", ContentType: "application/pdf", SizeBytes: int64(len(data))},
		io.NopCloser(strings.NewReader(data)), nil
}

func (f *fakeNoticeService) Delete(ctx context.Context, actor user.Actor, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

// ---- fixture ----

type routerFixture struct {
	router      *chi.Mux
	jwt         jwt.Service
	attendance  *fakeAttendanceService
	auth        *fakeAuthService
	invitations *fakeInvitationService
	reports     *fakeWeeklyReportService
	notices     *fakeNoticeService
	orgs        *fakeOrganizationService
	employees   *fakeEmployeeService
	leaves      *fakeLeaveService
	payroll     *fakePayrollService
	documents   *fakeDocumentService
	uploadsDir  string
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	jwtService, err := jwt.NewJWTService("router-test-secret", "1h", "24h")
	require.NoError(t, err)

	cal, err := calendarService.NewCalendarService([]calendar.HolidayEntry{
		{Date: "2025-10-20", Name: "Diwali", Category: calendar.CategoryPublic},
	})
	require.NoError(t, err)

	f := &routerFixture{
		jwt:         jwtService,
		attendance:  &fakeAttendanceService{},
		auth:        &fakeAuthService{},
		invitations: &fakeInvitationService{},
		reports:     &fakeWeeklyReportService{},
		notices:     &fakeNoticeService{},
		orgs:        &fakeOrganizationService{},
		employees:   &fakeEmployeeService{},
		leaves:      &fakeLeaveService{},
		payroll:     &fakePayrollService{},
		documents:   &fakeDocumentService{},
		uploadsDir:  t.TempDir(),
	}

	resolver := geo.NewResolver(geo.AllowedRegion, []geo.OfficeLocation{
		{Name: "Mangalagiri", Latitude: 16.4307, Longitude: 80.5525},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f.router = NewRouter(
		config.AppConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		logger,
		jwtService,
		NewAuthHandler(f.auth, jwtService),
		NewAttendanceHandler(f.attendance),
		NewInvitationHandler(f.invitations),
		NewWeeklyReportHandler(f.reports),
		NewNoticeHandler(f.notices),
		NewReferenceHandler(resolver, cal, time.UTC),
		NewOrganizationHandler(f.orgs),
		NewEmployeeHandler(f.employees),
		NewLeaveHandler(f.leaves),
		NewPayrollHandler(f.payroll),
		NewDocumentHandler(f.documents),
		f.uploadsDir,
	)
	return f
}

func (f *routerFixture) token(t *testing.T, role user.Role) string {
	t.Helper()
	return f.tokenFor(t, user.User{ID: "user-1", Email: "ravi@apmaritime.in", Role: role})
}

func (f *routerFixture) tokenFor(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// ---- attendance ----

func TestAttendance_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{"action": "start"}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.attendance.submitted)
}

func TestAttendance_SubmitStart(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{
		"action":    "start",
		"latitude":  16.4307,
		"longitude": 80.5525,
	}), f.token(t, user.RoleUser))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Work start time marked successfully", resp.Message)
	assert.Equal(t, "user-1", f.attendance.actor.UserID)
	require.Len(t, f.attendance.submitted, 1)
	assert.NotNil(t, f.attendance.submitted[0].Locator)
}

func TestAttendance_OutOfOfficeIgnoresLocation(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{
		"action":         "ooo",
		"location_error": "permission_denied",
	}), f.token(t, user.RoleUser))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, f.attendance.submitted[0].Locator)
}

func TestAttendance_ReportedLocationFailure(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{
		"action":         "end",
		"location_error": "timeout",
	}), f.token(t, user.RoleUser))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "LOCATION_ERROR", decodeResponse(t, rec).Error.Code)
}

func TestAttendance_SubmitErrors(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{"action": "lunch"}), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	f.attendance.submitErr = &attendance.RangeError{DistanceMeters: 812}
	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{
		"action": "start", "latitude": 16.5, "longitude": 80.6,
	}), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "OUT_OF_RANGE", resp.Error.Code)
	assert.Equal(t, "812", resp.Error.Details["distance_meters"])

	f.attendance.submitErr = attendance.ErrAlreadyCompleted
	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/attendance", map[string]any{
		"action": "end", "latitude": 16.4307, "longitude": 80.5525,
	}), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeResponse(t, rec).Error.Code)
}

func TestAttendance_ListIsForReportViewers(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance?page=2&limit=5", nil), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance?page=2&limit=5", nil), f.token(t, user.RoleDepartmentAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance?page=two", nil), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttendance_TodayAndMy(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/my?month=October&year=2025", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"month":"October"`)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/missing-id", nil), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- auth ----

func TestAuth_LoginSetsRefreshCookie(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ravi@apmaritime.in", "password": "secret123",
	}), "")

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, jwt.RefreshCookieName(), cookies[0].Name)
	assert.Equal(t, "refresh-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuth_LoginFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.auth.loginErr = auth.ErrInvalidCredentials

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ravi@apmaritime.in", "password": "wrong",
	}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_RefreshPrefersCookie(t *testing.T) {
	f := newRouterFixture(t)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "from-body"})
	req.AddCookie(&http.Cookie{Name: jwt.RefreshCookieName(), Value: "from-cookie"})
	rec := f.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "from-body"}), "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"from-cookie", "from-body"}, f.auth.refreshed)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_LogoutClearsCookie(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: jwt.RefreshCookieName(), Value: "refresh-1"})
	rec := f.do(req, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"refresh-1"}, f.auth.loggedOut)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAuth_RegisterTakesInvitationFromPath(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/auth/register/3f1c2d4e-0000-4000-8000-000000000001", map[string]string{
		"password": "secret123", "confirm_password": "secret123",
	}), "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "3f1c2d4e-0000-4000-8000-000000000001", f.auth.registered.InvitationID)
}

func TestAuth_Me(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), f.token(t, user.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ravi@apmaritime.in"`)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---- invitations ----

func TestInvitations_AdminOnlyCreate(t *testing.T) {
	f := newRouterFixture(t)
	body := map[string]string{"email": "new@apmaritime.in", "name": "New", "designation": "Surveyor"}

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/invitations", body), f.token(t, user.RoleDepartmentAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.invitations.created)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/invitations", body), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Message, "could not be sent")
}

func TestInvitations_PublicLookup(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/invitations/some-id", nil), "")
	assert.Equal(t, http.StatusGone, rec.Code)
}

// ---- weekly reports ----

func TestWeeklyReports(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(jsonRequest(http.MethodPost, "/api/v1/weekly-reports", map[string]string{"report": "   "}), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(jsonRequest(http.MethodPost, "/api/v1/weekly-reports", map[string]string{"report": "Hull survey done"}), token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/weekly-reports/my?month=October&search=hull", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hull", f.reports.listFilter.Search)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/weekly-reports", nil), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/weekly-reports?user_id=user-9", nil), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.reports.listFilter.UserID)
	assert.Equal(t, "user-9", *f.reports.listFilter.UserID)
}

// ---- notices ----

func multipartNotice(t *testing.T, fileName string, content []byte, description string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("description", description))
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notices", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestNotices_Upload(t *testing.T) {
	f := newRouterFixture(t)
	content := []byte("%PDF-1.4 holiday circular")

	rec := f.do(multipartNotice(t, "circular.pdf", content, "Diwali"), f.token(t, user.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(multipartNotice(t, "circular.pdf", content, "  Diwali  "), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "circular.pdf", f.notices.uploaded.FileName)
	assert.Equal(t, "Diwali", f.notices.uploaded.Description)
	assert.Equal(t, content, f.notices.content)
}

func TestNotices_UploadMissingFile(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(multipartNotice(t, "", nil, "Diwali"), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Error.Details, "file")
}

func TestNotices_UploadTooLarge(t *testing.T) {
	f := newRouterFixture(t)
	big := bytes.Repeat([]byte("a"), notice.MaxFileSize+multipartOverhead+1)

	rec := f.do(multipartNotice(t, "big.pdf", big, "Too big"), f.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNotices_Download(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/notices/n-1/download", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Diwali circular.pdf")
	assert.Equal(t, "%PDF-1.4 circular", rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/notices/n-2/download", nil), token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotices_Delete(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/v1/notices/n-1", nil), f.token(t, user.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"n-1"}, f.notices.deleted)
}

// ---- reference data and static files ----

func TestReference_OfficesAndHolidays(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, user.RoleUser)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/offices", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mangalagiri")

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=2025", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Diwali")

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=1999", nil), token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUploads_ServesFilesWithoutListing(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.uploadsDir, "notices"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.uploadsDir, "notices", "a.pdf"), []byte("%PDF-"), 0o644))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/uploads/notices/a.pdf", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-", rec.Body.String())

	rec = f.do(httptest.NewRequest(http.MethodGet, "/uploads/notices/", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
