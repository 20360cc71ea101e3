package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/document"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

const documentSelect = `
	SELECT d.id, d.user_id, d.file_name, d.object_key, d.content_type, d.size_bytes,
	       d.message, d.status, d.uploaded_at,
	       d.response_message, d.response_file_name, d.response_object_key,
	       d.response_content_type, d.response_size_bytes, d.responded_by, d.responded_at,
	       u.name, u.email, u.department_id, dep.name
	FROM documents d
	JOIN users u ON u.id = d.user_id
	LEFT JOIN departments dep ON dep.id::text = u.department_id`

func scanDocument(row pgx.Row) (document.Document, error) {
	var d document.Document
	var status string
	var respName, respKey, respType *string
	var respSize *int64

	err := row.Scan(
		&d.ID, &d.UserID, &d.File.FileName, &d.File.ObjectKey, &d.File.ContentType, &d.File.SizeBytes,
		&d.Message, &status, &d.UploadedAt,
		&d.ResponseMessage, &respName, &respKey,
		&respType, &respSize, &d.RespondedBy, &d.RespondedAt,
		&d.UserName, &d.UserEmail, &d.DepartmentID, &d.DepartmentName,
	)
	if err != nil {
		return document.Document{}, err
	}

	d.Status = document.Status(status)
	if respKey != nil {
		d.ResponseFile = &document.File{ObjectKey: *respKey}
		if respName != nil {
			d.ResponseFile.FileName = *respName
		}
		if respType != nil {
			d.ResponseFile.ContentType = *respType
		}
		if respSize != nil {
			d.ResponseFile.SizeBytes = *respSize
		}
	}
	return d, nil
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, doc document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO documents (user_id, file_name, object_key, content_type, size_bytes, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		doc.UserID, doc.File.FileName, doc.File.ObjectKey, doc.File.ContentType, doc.File.SizeBytes, doc.Message,
	).Scan(&id)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to create document: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *documentRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := documentSelect + ` WHERE d.id = $1`
	if lock {
		query += ` FOR UPDATE OF d`
	}

	d, err := scanDocument(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (document.Document, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (document.Document, error) {
	return r.getByID(ctx, id, true)
}

// List implements document.DocumentRepository.
func (r *documentRepositoryImpl) List(ctx context.Context, filter document.ListFilter) ([]document.Document, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND d.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND u.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND d.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND d.uploaded_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND d.uploaded_at < $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d OR d.file_name ILIKE $%d OR dep.name ILIKE $%d)", argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
	}

	rows, err := q.Query(ctx, documentSelect+` WHERE `+where+` ORDER BY d.uploaded_at DESC, d.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (document.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	return docs, nil
}

// Respond implements document.DocumentRepository.
func (r *documentRepositoryImpl) Respond(ctx context.Context, doc document.Document) error {
	q := GetQuerier(ctx, r.db)

	var respName, respKey, respType *string
	var respSize *int64
	if f := doc.ResponseFile; f != nil {
		respName, respKey, respType, respSize = &f.FileName, &f.ObjectKey, &f.ContentType, &f.SizeBytes
	}

	tag, err := q.Exec(ctx, `
		UPDATE documents SET
			status = $2, response_message = $3,
			response_file_name = $4, response_object_key = $5,
			response_content_type = $6, response_size_bytes = $7,
			responded_by = $8, responded_at = $9
		WHERE id = $1`,
		doc.ID, string(doc.Status), doc.ResponseMessage,
		respName, respKey, respType, respSize,
		doc.RespondedBy, doc.RespondedAt,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return document.ErrDocumentNotFound
		}
		return fmt.Errorf("failed to save document response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}

// Delete implements document.DocumentRepository.
func (r *documentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return document.ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}
