package invitation

import (
	"context"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

// InvitationService defines the interface for invitation business logic
type InvitationService interface {
	// CreateAndSend creates an invitation and emails the registration link
	CreateAndSend(ctx context.Context, actor user.Actor, req CreateRequest) (InvitationResponse, error)

	// GetForRegistration returns the prefill data of a usable invitation (public endpoint)
	GetForRegistration(ctx context.Context, id string) (InvitationResponse, error)

	// ListPending lists invitations that have not been used yet (admin)
	ListPending(ctx context.Context, actor user.Actor) ([]InvitationResponse, error)
}
