package invitation

import (
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

// Status represents the status of an invitation
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Invitation is a pending account for someone an administrator invited. Its
// ID is the secret part of the registration link.
type Invitation struct {
	ID           string
	Email        string
	Name         string
	Designation  string
	Role         user.Role
	DepartmentID *string
	InvitedBy    string
	Status       Status
	ExpiresAt    time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExpired checks if the invitation has expired at now
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CheckUsable reports why the invitation cannot be used, or nil.
func (i *Invitation) CheckUsable(now time.Time) error {
	if i.Status == StatusCompleted {
		return ErrInvitationAlreadyUsed
	}
	if i.IsExpired(now) {
		return ErrInvitationExpired
	}
	return nil
}
