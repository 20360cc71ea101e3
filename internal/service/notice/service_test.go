package notice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/notice"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNoticeRepo struct {
	notices   map[string]notice.Notice
	clock     time.Time
	createErr error
}

func (r *fakeNoticeRepo) Create(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	if r.createErr != nil {
		return notice.Notice{}, r.createErr
	}
	r.clock = r.clock.Add(time.Minute)
	n.ID = fmt.Sprintf("notice-%d", len(r.notices)+1)
	n.UploadedAt = r.clock
	r.notices[n.ID] = n
	return n, nil
}

func (r *fakeNoticeRepo) GetByID(ctx context.Context, id string) (notice.Notice, error) {
	n, ok := r.notices[id]
	if !ok {
		return notice.Notice{}, notice.ErrNoticeNotFound
	}
	return n, nil
}

func (r *fakeNoticeRepo) List(ctx context.Context) ([]notice.Notice, error) {
	out := make([]notice.Notice, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *fakeNoticeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.notices[id]; !ok {
		return notice.ErrNoticeNotFound
	}
	delete(r.notices, id)
	return nil
}

var (
	admin    = user.Actor{UserID: "admin-1", Role: user.RoleAdmin}
	employee = user.Actor{UserID: "user-1", Role: user.RoleUser}
)

func newNoticeFixture(t *testing.T) (*NoticeServiceImpl, *fakeNoticeRepo, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	repo := &fakeNoticeRepo{notices: map[string]notice.Notice{}, clock: time.Date(2026, 10, 15, 4, 0, 0, 0, time.UTC)}
	svc := NewNoticeService(repo, file.NewFileService(local), time.FixedZone("IST", 5*3600+30*60)).(*NoticeServiceImpl)
	return svc, repo, local
}

func pdfUpload(name, description string) notice.UploadRequest {
	body := "%PDF-1.4 " + name
	return notice.UploadRequest{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Description: description,
		File:        strings.NewReader(body),
	}
}

func TestUpload_ListAndOpen(t *testing.T) {
	svc, repo, _ := newNoticeFixture(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, admin, pdfUpload("holiday-circular.pdf", " Holiday circular "))
	require.NoError(t, err)
	assert.Equal(t, "Holiday circular", first.Description)
	assert.Equal(t, "2026-10-15 09:31:00", first.UploadedAt)
	assert.True(t, strings.HasPrefix(first.URL, "http://localhost:8080/uploads/notices/"))

	_, err = svc.Upload(ctx, admin, pdfUpload("transfer-order.pdf", "Transfer order"))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "transfer-order.pdf", list[0].FileName, "newest first")

	n, rc, err := svc.Open(ctx, first.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 holiday-circular.pdf", string(body))
	assert.Equal(t, repo.notices[first.ID].ObjectKey, n.ObjectKey)
}

func TestUpload_Rejections(t *testing.T) {
	svc, repo, _ := newNoticeFixture(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, employee, pdfUpload("a.pdf", "x"))
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	_, err = svc.Upload(ctx, admin, pdfUpload("a.pdf", "   "))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "description", verrs[0].Field)

	big := pdfUpload("a.pdf", "x")
	big.Size = notice.MaxFileSize + 1
	_, err = svc.Upload(ctx, admin, big)
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, notice.ErrFileTooLarge.Error(), verrs[0].Message)

	_, err = svc.Upload(ctx, admin, notice.UploadRequest{
		FileName: "photo.png", ContentType: "image/png", Size: 4, Description: "x", File: strings.NewReader("\x89PNG"),
	})
	assert.ErrorIs(t, err, notice.ErrInvalidFileType)

	assert.Empty(t, repo.notices)
}

func TestUpload_RemovesDocumentWhenRowFails(t *testing.T) {
	svc, repo, local := newNoticeFixture(t)
	repo.createErr = errors.New("db down")

	_, err := svc.Upload(context.Background(), admin, pdfUpload("a.pdf", "x"))
	require.Error(t, err)

	entries, err := readDirNames(local.BasePath() + "/notices")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newNoticeFixture(t)
	ctx := context.Background()

	created, err := svc.Upload(ctx, admin, pdfUpload("a.pdf", "x"))
	require.NoError(t, err)
	key := repo.notices[created.ID].ObjectKey

	assert.ErrorIs(t, svc.Delete(ctx, employee, created.ID), user.ErrAdminPrivilegeRequired)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	assert.Empty(t, repo.notices)

	_, err = svc.fileService.OpenFile(ctx, key)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, admin, created.ID), notice.ErrNoticeNotFound)
	_, _, err = svc.Open(ctx, created.ID)
	assert.ErrorIs(t, err, notice.ErrNoticeNotFound)
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
