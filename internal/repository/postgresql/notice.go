package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/notice"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type noticeRepositoryImpl struct {
	db *database.DB
}

func NewNoticeRepository(db *database.DB) notice.NoticeRepository {
	return &noticeRepositoryImpl{db: db}
}

const noticeColumns = `
	id, file_name, object_key, content_type, size_bytes, description,
	COALESCE(uploaded_by::text, ''), uploaded_at`

func scanNotice(row pgx.Row) (notice.Notice, error) {
	var n notice.Notice
	err := row.Scan(&n.ID, &n.FileName, &n.ObjectKey, &n.ContentType, &n.SizeBytes, &n.Description, &n.UploadedBy, &n.UploadedAt)
	return n, err
}

// Create implements notice.NoticeRepository.
func (r *noticeRepositoryImpl) Create(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notices (file_name, object_key, content_type, size_bytes, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + noticeColumns

	created, err := scanNotice(q.QueryRow(ctx, query,
		n.FileName, n.ObjectKey, n.ContentType, n.SizeBytes, n.Description, n.UploadedBy,
	))
	if err != nil {
		return notice.Notice{}, fmt.Errorf("failed to create notice: %w", err)
	}
	return created, nil
}

// GetByID implements notice.NoticeRepository.
func (r *noticeRepositoryImpl) GetByID(ctx context.Context, id string) (notice.Notice, error) {
	q := GetQuerier(ctx, r.db)

	n, err := scanNotice(q.QueryRow(ctx, `SELECT`+noticeColumns+` FROM notices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return notice.Notice{}, notice.ErrNoticeNotFound
		}
		return notice.Notice{}, fmt.Errorf("failed to get notice: %w", err)
	}
	return n, nil
}

// List implements notice.NoticeRepository.
func (r *noticeRepositoryImpl) List(ctx context.Context) ([]notice.Notice, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+noticeColumns+` FROM notices ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notices: %w", err)
	}

	notices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notice.Notice, error) {
		return scanNotice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan notices: %w", err)
	}
	return notices, nil
}

// Delete implements notice.NoticeRepository.
func (r *noticeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return notice.ErrNoticeNotFound
		}
		return fmt.Errorf("failed to delete notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notice.ErrNoticeNotFound
	}
	return nil
}
