package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/leave"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT l.id, l.user_id, l.department_id, l.reason, l.from_time, l.to_time,
	       l.attachment_name, l.attachment_key, l.attachment_content_type, l.attachment_size,
	       l.status, l.hod_status, l.hod_by, hu.name, l.hod_at, l.hod_note,
	       l.ceo_status, l.ceo_by, cu.name, l.ceo_at, l.ceo_note,
	       l.created_at, l.updated_at, u.name, u.email
	FROM leave_applications l
	JOIN users u ON u.id = l.user_id
	LEFT JOIN users hu ON hu.id = l.hod_by
	LEFT JOIN users cu ON cu.id = l.ceo_by`

func scanLeave(row pgx.Row) (leave.LeaveApplication, error) {
	var a leave.LeaveApplication
	var status, hodStatus, ceoStatus string
	var attName, attKey, attType *string
	var attSize *int64

	err := row.Scan(
		&a.ID, &a.UserID, &a.DepartmentID, &a.Reason, &a.FromTime, &a.ToTime,
		&attName, &attKey, &attType, &attSize,
		&status, &hodStatus, &a.HOD.By, &a.HOD.ByName, &a.HOD.At, &a.HOD.Note,
		&ceoStatus, &a.CEO.By, &a.CEO.ByName, &a.CEO.At, &a.CEO.Note,
		&a.CreatedAt, &a.UpdatedAt, &a.UserName, &a.UserEmail,
	)
	if err != nil {
		return leave.LeaveApplication{}, err
	}

	a.Status = leave.Status(status)
	a.HOD.Status = leave.ApprovalStatus(hodStatus)
	a.CEO.Status = leave.ApprovalStatus(ceoStatus)
	if attKey != nil {
		a.Attachment = &leave.Attachment{ObjectKey: *attKey}
		if attName != nil {
			a.Attachment.FileName = *attName
		}
		if attType != nil {
			a.Attachment.ContentType = *attType
		}
		if attSize != nil {
			a.Attachment.Size = *attSize
		}
	}
	return a, nil
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, app leave.LeaveApplication) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	var attName, attKey, attType *string
	var attSize *int64
	if app.Attachment != nil {
		attName, attKey, attType = &app.Attachment.FileName, &app.Attachment.ObjectKey, &app.Attachment.ContentType
		attSize = &app.Attachment.Size
	}

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO leave_applications (
			user_id, department_id, reason, from_time, to_time,
			attachment_name, attachment_key, attachment_content_type, attachment_size,
			hod_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		app.UserID, app.DepartmentID, app.Reason, app.FromTime, app.ToTime,
		attName, attKey, attType, attSize,
		string(app.HOD.Status),
	).Scan(&id)
	if err != nil {
		return leave.LeaveApplication{}, fmt.Errorf("failed to create leave application: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *leaveRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveSelect + ` WHERE l.id = $1`
	if lock {
		query += ` FOR UPDATE OF l`
	}

	a, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return leave.LeaveApplication{}, leave.ErrLeaveNotFound
		}
		return leave.LeaveApplication{}, fmt.Errorf("failed to get leave application: %w", err)
	}
	return a, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveApplication, error) {
	return r.getByID(ctx, id, true)
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveApplication, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []any{}
	argIdx := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND l.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND l.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
	}
	switch filter.Awaiting {
	case leave.LevelHOD:
		where += " AND l.status = 'pending' AND l.department_id IS NOT NULL AND l.hod_status = 'pending'"
	case leave.LevelCEO:
		where += " AND l.status = 'pending' AND (l.department_id IS NULL OR l.hod_status = 'approved') AND l.ceo_status = 'pending'"
	}

	rows, err := q.Query(ctx, leaveSelect+` WHERE `+where+` ORDER BY l.created_at DESC, l.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave applications: %w", err)
	}

	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (leave.LeaveApplication, error) {
		return scanLeave(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave applications: %w", err)
	}
	return apps, nil
}

// UpdateDecision implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) UpdateDecision(ctx context.Context, app leave.LeaveApplication) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_applications SET
			status = $2,
			hod_status = $3, hod_by = $4, hod_at = $5, hod_note = $6,
			ceo_status = $7, ceo_by = $8, ceo_at = $9, ceo_note = $10,
			updated_at = NOW()
		WHERE id = $1`,
		app.ID, string(app.Status),
		string(app.HOD.Status), app.HOD.By, app.HOD.At, app.HOD.Note,
		string(app.CEO.Status), app.CEO.By, app.CEO.At, app.CEO.Note,
	)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return leave.ErrLeaveNotFound
		}
		return fmt.Errorf("failed to update leave application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}
