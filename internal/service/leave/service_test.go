package leave

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/leave"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

type inTxKey struct{}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

type fakeLeaveRepo struct {
	apps       map[string]leave.LeaveApplication
	clock      time.Time
	createErr  error
	lastFilter leave.ListFilter
	lockedInTx bool
}

func (r *fakeLeaveRepo) Create(ctx context.Context, a leave.LeaveApplication) (leave.LeaveApplication, error) {
	if r.createErr != nil {
		return leave.LeaveApplication{}, r.createErr
	}
	r.clock = r.clock.Add(time.Minute)
	a.ID = fmt.Sprintf("leave-%d", len(r.apps)+1)
	a.CreatedAt = r.clock
	a.UpdatedAt = r.clock
	a.UserName = "Name of " + a.UserID
	r.apps[a.ID] = a
	return a, nil
}

func (r *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	a, ok := r.apps[id]
	if !ok {
		return leave.LeaveApplication{}, leave.ErrLeaveNotFound
	}
	return a, nil
}

func (r *fakeLeaveRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveApplication, error) {
	r.lockedInTx = ctx.Value(inTxKey{}) != nil
	return r.GetByID(ctx, id)
}

func (r *fakeLeaveRepo) List(ctx context.Context, f leave.ListFilter) ([]leave.LeaveApplication, error) {
	r.lastFilter = f
	var out []leave.LeaveApplication
	for _, a := range r.apps {
		if f.UserID != nil && a.UserID != *f.UserID {
			continue
		}
		if f.DepartmentID != nil && (a.DepartmentID == nil || *a.DepartmentID != *f.DepartmentID) {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.Awaiting != "" && a.AwaitingLevel() != f.Awaiting {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeLeaveRepo) UpdateDecision(ctx context.Context, a leave.LeaveApplication) error {
	if _, ok := r.apps[a.ID]; !ok {
		return leave.ErrLeaveNotFound
	}
	r.apps[a.ID] = a
	return nil
}

func strPtr(s string) *string { return &s }

var (
	admin     = user.Actor{UserID: "admin-1", Role: user.RoleAdmin}
	hod       = user.Actor{UserID: "hod-1", Role: user.RoleDepartmentAdmin, DepartmentID: strPtr("dept-a")}
	otherHOD  = user.Actor{UserID: "hod-2", Role: user.RoleDepartmentAdmin, DepartmentID: strPtr("dept-b")}
	clerk     = user.Actor{UserID: "user-1", Role: user.RoleUser, DepartmentID: strPtr("dept-a")}
	colleague = user.Actor{UserID: "user-2", Role: user.RoleUser, DepartmentID: strPtr("dept-a")}
	floater   = user.Actor{UserID: "user-3", Role: user.RoleUser}
)

var decidedAt = time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)

func newLeaveFixtureWithStorage(t *testing.T) (*LeaveServiceImpl, *fakeLeaveRepo, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	repo := &fakeLeaveRepo{apps: map[string]leave.LeaveApplication{}, clock: time.Date(2026, 10, 14, 4, 0, 0, 0, time.UTC)}
	svc := NewLeaveService(fakeTransactor{}, repo, file.NewFileService(local), ist, func() time.Time { return decidedAt }).(*LeaveServiceImpl)
	return svc, repo, local
}

func newLeaveFixture(t *testing.T) (*LeaveServiceImpl, *fakeLeaveRepo) {
	t.Helper()
	svc, repo, _ := newLeaveFixtureWithStorage(t)
	return svc, repo
}

func apply(reason string) leave.ApplyRequest {
	return leave.ApplyRequest{Reason: reason, FromTime: "2026-10-20T09:30", ToTime: "2026-10-21T18:00"}
}

func mustApply(t *testing.T, svc *LeaveServiceImpl, actor user.Actor) leave.LeaveApplicationResponse {
	t.Helper()
	resp, err := svc.Apply(context.Background(), actor, apply("Family function"))
	require.NoError(t, err)
	return resp
}

func TestApply(t *testing.T) {
	svc, repo := newLeaveFixture(t)

	resp, err := svc.Apply(context.Background(), clerk, apply("  Family function  "))
	require.NoError(t, err)
	assert.Equal(t, "Family function", resp.Reason)
	assert.Equal(t, "2026-10-20 09:30", resp.FromTime)
	assert.Equal(t, "2026-10-21 18:00", resp.ToTime)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, leave.ApprovalPending, resp.HOD.Status)
	assert.Equal(t, leave.LevelHOD, resp.Awaiting)
	assert.Nil(t, resp.Attachment)

	stored := repo.apps[resp.ID]
	assert.Equal(t, "dept-a", *stored.DepartmentID)
	assert.True(t, stored.FromTime.Equal(time.Date(2026, 10, 20, 4, 0, 0, 0, time.UTC)))

	resp, err = svc.Apply(context.Background(), floater, apply("Medical"))
	require.NoError(t, err)
	assert.Equal(t, leave.LevelCEO, resp.Awaiting, "no department means no head of department step")
}

func TestApply_WithAttachment(t *testing.T) {
	svc, _ := newLeaveFixture(t)
	ctx := context.Background()

	req := apply("Medical")
	body := "%PDF-1.4 certificate"
	req.File = strings.NewReader(body)
	req.FileName = "certificate.pdf"
	req.ContentType = "application/pdf"
	req.Size = int64(len(body))

	resp, err := svc.Apply(ctx, clerk, req)
	require.NoError(t, err)
	require.NotNil(t, resp.Attachment)
	assert.Equal(t, "certificate.pdf", resp.Attachment.FileName)
	assert.True(t, strings.HasPrefix(resp.Attachment.URL, "http://localhost:8080/uploads/leave_applications/user-1/"))

	app, rc, err := svc.OpenAttachment(ctx, hod, resp.ID)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
	assert.Equal(t, resp.ID, app.ID)

	_, _, err = svc.OpenAttachment(ctx, otherHOD, resp.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
	_, _, err = svc.OpenAttachment(ctx, colleague, resp.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)

	plain := mustApply(t, svc, clerk)
	_, _, err = svc.OpenAttachment(ctx, clerk, plain.ID)
	assert.ErrorIs(t, err, leave.ErrAttachmentNotFound)
}

func TestApply_Rejections(t *testing.T) {
	svc, repo := newLeaveFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   leave.ApplyRequest
		field string
	}{
		{"blank reason", apply("  "), "reason"},
		{"bad from", leave.ApplyRequest{Reason: "x", FromTime: "tomorrow", ToTime: "2026-10-21T18:00"}, "from_time"},
		{"to before from", leave.ApplyRequest{Reason: "x", FromTime: "2026-10-21T18:00", ToTime: "2026-10-21T09:00"}, "to_time"},
		{"equal bounds", leave.ApplyRequest{Reason: "x", FromTime: "2026-10-21T09:00", ToTime: "2026-10-21T09:00"}, "to_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(ctx, clerk, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}

	req := apply("Trip")
	req.File = strings.NewReader("MZ\x90\x00")
	req.FileName = "trip.exe"
	_, err := svc.Apply(ctx, clerk, req)
	assert.ErrorIs(t, err, storage.ErrInvalidFileType)
	assert.Empty(t, repo.apps)
}

func TestApply_CreateFailureRemovesAttachment(t *testing.T) {
	svc, repo, local := newLeaveFixtureWithStorage(t)
	repo.createErr = fmt.Errorf("db down")

	req := apply("Medical")
	req.File = strings.NewReader("%PDF-1.4")
	req.FileName = "note.pdf"
	req.ContentType = "application/pdf"

	_, err := svc.Apply(context.Background(), clerk, req)
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(local.BasePath(), "leave_applications", "user-1"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecide_FullApprovalChain(t *testing.T) {
	svc, repo := newLeaveFixture(t)
	ctx := context.Background()
	app := mustApply(t, svc, clerk)

	_, err := svc.Decide(ctx, admin, leave.DecideRequest{ID: app.ID, Action: "approve", Note: "ok"})
	assert.ErrorIs(t, err, leave.ErrHODApprovalPending)

	resp, err := svc.Decide(ctx, hod, leave.DecideRequest{ID: app.ID, Action: "approve", Note: " Covered by team "})
	require.NoError(t, err)
	assert.True(t, repo.lockedInTx)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, leave.ApprovalApproved, resp.HOD.Status)
	assert.Equal(t, "hod-1", *resp.HOD.By)
	assert.Equal(t, "Covered by team", *resp.HOD.Note)
	assert.Equal(t, "2026-10-15 11:30:00", *resp.HOD.At)
	assert.Equal(t, leave.LevelCEO, resp.Awaiting)

	_, err = svc.Decide(ctx, hod, leave.DecideRequest{ID: app.ID, Action: "reject", Note: "changed my mind"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	resp, err = svc.Decide(ctx, admin, leave.DecideRequest{ID: app.ID, Action: "approve", Note: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.Equal(t, leave.ApprovalApproved, resp.CEO.Status)
	assert.Empty(t, resp.Awaiting)

	_, err = svc.Decide(ctx, admin, leave.DecideRequest{ID: app.ID, Action: "reject", Note: "no"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestDecide_RejectClosesApplication(t *testing.T) {
	svc, _ := newLeaveFixture(t)
	ctx := context.Background()

	app := mustApply(t, svc, clerk)
	resp, err := svc.Decide(ctx, hod, leave.DecideRequest{ID: app.ID, Action: "reject", Note: "Audit week"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	assert.Equal(t, leave.ApprovalRejected, resp.HOD.Status)
	assert.Equal(t, leave.ApprovalPending, resp.CEO.Status)

	_, err = svc.Decide(ctx, admin, leave.DecideRequest{ID: app.ID, Action: "approve", Note: "override"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	// Admin decides directly when there is no department
	solo := mustApply(t, svc, floater)
	resp, err = svc.Decide(ctx, admin, leave.DecideRequest{ID: solo.ID, Action: "reject", Note: "Short staffed"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	assert.Equal(t, leave.ApprovalRejected, resp.CEO.Status)
}

func TestDecide_Guards(t *testing.T) {
	svc, _ := newLeaveFixture(t)
	ctx := context.Background()

	app := mustApply(t, svc, clerk)
	own := mustApply(t, svc, hod)

	tests := []struct {
		name  string
		actor user.Actor
		req   leave.DecideRequest
		want  error
	}{
		{"regular user", colleague, leave.DecideRequest{ID: app.ID, Action: "approve", Note: "x"}, user.ErrInsufficientPermissions},
		{"other department", otherHOD, leave.DecideRequest{ID: app.ID, Action: "approve", Note: "x"}, leave.ErrLeaveNotFound},
		{"own application", hod, leave.DecideRequest{ID: own.ID, Action: "approve", Note: "x"}, leave.ErrCannotDecideOwn},
		{"unknown", admin, leave.DecideRequest{ID: "missing", Action: "approve", Note: "x"}, leave.ErrLeaveNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decide(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Decide(ctx, hod, leave.DecideRequest{ID: app.ID, Action: "approve"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "note", verrs[0].Field)

	_, err = svc.Decide(ctx, hod, leave.DecideRequest{ID: app.ID, Action: "maybe", Note: "x"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "action", verrs[0].Field)
}

func TestList_ScopesByRole(t *testing.T) {
	svc, repo := newLeaveFixture(t)
	ctx := context.Background()

	a := mustApply(t, svc, clerk)
	mustApply(t, svc, colleague)
	mustApply(t, svc, floater)
	_, err := svc.Decide(ctx, hod, leave.DecideRequest{ID: a.ID, Action: "approve", Note: "ok"})
	require.NoError(t, err)

	resp, err := svc.List(ctx, hod, leave.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Applications, 2)
	assert.Equal(t, "dept-a", *repo.lastFilter.DepartmentID)
	assert.Equal(t, 2, resp.Counts.Pending)

	resp, err = svc.List(ctx, hod, leave.ListRequest{AwaitingMe: true})
	require.NoError(t, err)
	require.Len(t, resp.Applications, 1)
	assert.Equal(t, "user-2", resp.Applications[0].UserID)

	resp, err = svc.List(ctx, admin, leave.ListRequest{AwaitingMe: true})
	require.NoError(t, err)
	ids := []string{}
	for _, app := range resp.Applications {
		ids = append(ids, app.UserID)
	}
	assert.ElementsMatch(t, []string{"user-1", "user-3"}, ids)

	resp, err = svc.List(ctx, admin, leave.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Applications, 3)
	assert.Nil(t, repo.lastFilter.DepartmentID)

	_, err = svc.List(ctx, clerk, leave.ListRequest{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.List(ctx, admin, leave.ListRequest{Status: "unknown"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestListMine(t *testing.T) {
	svc, _ := newLeaveFixture(t)
	ctx := context.Background()

	first := mustApply(t, svc, clerk)
	second := mustApply(t, svc, clerk)
	mustApply(t, svc, colleague)

	mine, err := svc.ListMine(ctx, clerk)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")
	assert.Equal(t, first.ID, mine[1].ID)
}

func TestCancel(t *testing.T) {
	svc, _ := newLeaveFixture(t)
	ctx := context.Background()

	app := mustApply(t, svc, clerk)

	_, err := svc.Cancel(ctx, colleague, app.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)

	resp, err := svc.Cancel(ctx, clerk, app.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, resp.Status)
	assert.Empty(t, resp.Awaiting)

	_, err = svc.Cancel(ctx, clerk, app.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	_, err = svc.Decide(ctx, hod, leave.DecideRequest{ID: app.ID, Action: "approve", Note: "x"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}
