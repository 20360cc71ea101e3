package invitation

import (
	"context"
	"time"
)

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation record
	Create(ctx context.Context, inv Invitation) (Invitation, error)

	GetByID(ctx context.Context, id string) (Invitation, error)

	// ExistsPendingByEmail checks if email has a pending invitation that expires after now
	ExistsPendingByEmail(ctx context.Context, email string, now time.Time) (bool, error)

	// ListPending lists pending invitations, newest first
	ListPending(ctx context.Context) ([]Invitation, error)

	// MarkCompleted marks a pending invitation as used. It returns
	// ErrInvitationAlreadyUsed when another registration got there first.
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}
