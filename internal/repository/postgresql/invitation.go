package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/invitation"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type invitationRepositoryImpl struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

const invitationColumns = `
	id, email, name, designation, role, department_id, COALESCE(invited_by::text, ''),
	status, expires_at, completed_at, created_at, updated_at`

func scanInvitation(row pgx.Row) (invitation.Invitation, error) {
	var inv invitation.Invitation
	var role, status string
	err := row.Scan(
		&inv.ID, &inv.Email, &inv.Name, &inv.Designation, &role, &inv.DepartmentID, &inv.InvitedBy,
		&status, &inv.ExpiresAt, &inv.CompletedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	inv.Role = user.Role(role)
	inv.Status = invitation.Status(status)
	return inv, err
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invitations (
			email, name, designation, role, department_id, invited_by, status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING` + invitationColumns

	created, err := scanInvitation(q.QueryRow(ctx, query,
		inv.Email, inv.Name, inv.Designation, string(inv.Role), inv.DepartmentID,
		inv.InvitedBy, string(inv.Status), inv.ExpiresAt,
	))
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}

	return created, nil
}

// GetByID implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, id string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + invitationColumns + ` FROM invitations WHERE id = $1`

	inv, err := scanInvitation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to get invitation: %w", err)
	}

	return inv, nil
}

// ExistsPendingByEmail implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ExistsPendingByEmail(ctx context.Context, email string, now time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE LOWER(email) = LOWER($1)
			  AND status = $2
			  AND expires_at > $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, email, string(invitation.StatusPending), now).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return exists, nil
}

// ListPending implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListPending(ctx context.Context) ([]invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + invitationColumns + `
		FROM invitations
		WHERE status = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, string(invitation.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := make([]invitation.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invitations: %w", err)
	}

	return invitations, nil
}

// MarkCompleted implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET status = $2, completed_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	tag, err := q.Exec(ctx, query, id, string(invitation.StatusCompleted), at, string(invitation.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to mark invitation completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInvitationAlreadyUsed
	}
	return nil
}
