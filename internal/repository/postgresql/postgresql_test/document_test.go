package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/document"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitDocument(t *testing.T, ctx context.Context, repo document.DocumentRepository, userID, name string, uploadedAt time.Time) document.Document {
	t.Helper()
	doc, err := repo.Create(ctx, document.Document{
		UserID: userID,
		File: document.File{
			FileName:    name,
			ObjectKey:   "documents/" + userID + "/" + name,
			ContentType: "application/pdf",
			SizeBytes:   2048,
		},
		Message: "For verification",
	})
	require.NoError(t, err)
	_, err = testDB.Exec(ctx, `UPDATE documents SET uploaded_at = $2 WHERE id = $1`, doc.ID, uploadedAt)
	require.NoError(t, err)
	return doc
}

func TestDocumentRepository_CreateJoinsDepartment(t *testing.T) {
	ctx := setupTest(t)
	org, err := postgresql.NewOrganizationRepository(testDB).Create(ctx, organization.Organization{Name: "AP Maritime Board", Description: "Head office"})
	require.NoError(t, err)
	ports, err := postgresql.NewDepartmentRepository(testDB).Create(ctx, organization.Department{OrganizationID: org.ID, Name: "Ports", Description: "Port operations"})
	require.NoError(t, err)
	u := createTestUser(t, ctx, "ravi@apmaritime.in", &ports.ID)

	repo := postgresql.NewDocumentRepository(testDB)
	doc, err := repo.Create(ctx, document.Document{
		UserID:  u.ID,
		File:    document.File{FileName: "aadhaar.pdf", ObjectKey: "documents/x/a.pdf", ContentType: "application/pdf", SizeBytes: 100},
		Message: "Aadhaar copy",
	})
	require.NoError(t, err)

	assert.Equal(t, document.StatusPending, doc.Status)
	assert.Equal(t, "ravi", doc.UserName)
	require.NotNil(t, doc.DepartmentName)
	assert.Equal(t, "Ports", *doc.DepartmentName)
	assert.Nil(t, doc.ResponseFile)
	assert.Nil(t, doc.RespondedAt)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, document.ErrDocumentNotFound)
}

func TestDocumentRepository_ListFilters(t *testing.T) {
	ctx := setupTest(t)
	repo := postgresql.NewDocumentRepository(testDB)
	ravi := createTestUser(t, ctx, "ravi@apmaritime.in", ptr("dept-a"))
	sita := createTestUser(t, ctx, "sita@apmaritime.in", ptr("dept-b"))

	day := func(d int) time.Time { return time.Date(2026, 10, d, 10, 0, 0, 0, kolkata) }
	old := submitDocument(t, ctx, repo, ravi.ID, "pan.pdf", day(1))
	recent := submitDocument(t, ctx, repo, ravi.ID, "degree.pdf", day(12))
	other := submitDocument(t, ctx, repo, sita.ID, "passport.pdf", day(14))

	all, err := repo.List(ctx, document.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{other.ID, recent.ID, old.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := repo.List(ctx, document.ListFilter{UserID: &ravi.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	from := time.Date(2026, 10, 10, 0, 0, 0, 0, kolkata)
	to := time.Date(2026, 10, 13, 0, 0, 0, 0, kolkata)
	ranged, err := repo.List(ctx, document.ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, recent.ID, ranged[0].ID)

	bySearch, err := repo.List(ctx, document.ListFilter{Search: "SITA"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, other.ID, bySearch[0].ID)

	byDept, err := repo.List(ctx, document.ListFilter{DepartmentID: ptr("dept-a")})
	require.NoError(t, err)
	assert.Len(t, byDept, 2)

	approved := document.StatusApproved
	none, err := repo.List(ctx, document.ListFilter{Status: &approved})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentRepository_RespondAndDelete(t *testing.T) {
	ctx := setupTest(t)
	repo := postgresql.NewDocumentRepository(testDB)
	ravi := createTestUser(t, ctx, "ravi@apmaritime.in", nil)
	admin := createTestUser(t, ctx, "admin@apmaritime.in", nil)
	doc := submitDocument(t, ctx, repo, ravi.ID, "pan.pdf", time.Date(2026, 10, 14, 9, 0, 0, 0, kolkata))

	respondedAt := time.Date(2026, 10, 15, 11, 30, 0, 0, kolkata)
	doc.Status = document.StatusRejected
	doc.ResponseMessage = ptr("Scan is unreadable")
	doc.ResponseFile = &document.File{FileName: "note.pdf", ObjectKey: "documents/responses/" + doc.ID + "/n.pdf", ContentType: "application/pdf", SizeBytes: 512}
	doc.RespondedBy = &admin.ID
	doc.RespondedAt = &respondedAt
	require.NoError(t, repo.Respond(ctx, doc))

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusRejected, got.Status)
	require.NotNil(t, got.ResponseFile)
	assert.Equal(t, "note.pdf", got.ResponseFile.FileName)
	assert.Equal(t, int64(512), got.ResponseFile.SizeBytes)
	require.NotNil(t, got.RespondedAt)
	assert.True(t, got.RespondedAt.Equal(respondedAt))

	doc.ID = "00000000-0000-4000-8000-000000000000"
	assert.ErrorIs(t, repo.Respond(ctx, doc), document.ErrDocumentNotFound)

	require.NoError(t, repo.Delete(ctx, got.ID))
	assert.ErrorIs(t, repo.Delete(ctx, got.ID), document.ErrDocumentNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), document.ErrDocumentNotFound)
}
