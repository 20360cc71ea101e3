package invitation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/config"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/invitation"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/email"
)

type InvitationServiceImpl struct {
	invitation.InvitationRepository
	userRepository user.UserRepository
	email          email.EmailService
	cfg            config.InvitationConfig
	loc            *time.Location
	now            func() time.Time
}

func NewInvitationService(
	invitationRepository invitation.InvitationRepository,
	userRepository user.UserRepository,
	emailService email.EmailService,
	cfg config.InvitationConfig,
	loc *time.Location,
) invitation.InvitationService {
	if loc == nil {
		loc = time.UTC
	}
	return &InvitationServiceImpl{
		InvitationRepository: invitationRepository,
		userRepository:       userRepository,
		email:                emailService,
		cfg:                  cfg,
		loc:                  loc,
		now:                  time.Now,
	}
}

// registrationLink is the page the invitee opens to set a password.
func (s *InvitationServiceImpl) registrationLink(id string) string {
	return strings.TrimRight(s.cfg.RegistrationURL, "/") + "/" + id
}

// CreateAndSend implements invitation.InvitationService.
func (s *InvitationServiceImpl) CreateAndSend(ctx context.Context, actor user.Actor, req invitation.CreateRequest) (invitation.InvitationResponse, error) {
	if !actor.IsAdmin() {
		return invitation.InvitationResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return invitation.InvitationResponse{}, err
	}

	now := s.now()

	member, err := s.userRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if member {
		return invitation.InvitationResponse{}, invitation.ErrEmailAlreadyMember
	}

	pending, err := s.ExistsPendingByEmail(ctx, req.Email, now)
	if err != nil {
		return invitation.InvitationResponse{}, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if pending {
		return invitation.InvitationResponse{}, invitation.ErrEmailAlreadyInvited
	}

	inv, err := s.Create(ctx, invitation.Invitation{
		Email:        req.Email,
		Name:         req.Name,
		Designation:  req.Designation,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		InvitedBy:    actor.UserID,
		Status:       invitation.StatusPending,
		ExpiresAt:    now.Add(s.cfg.Expiry),
	})
	if err != nil {
		return invitation.InvitationResponse{}, err
	}

	link := s.registrationLink(inv.ID)
	sent := true
	// The invitation stays valid when mail delivery fails; the admin can share the link.
	if err := s.email.SendInvitation(inv.Email, inv.Name, inv.Designation, link, inv.ExpiresAt.In(s.loc)); err != nil {
		slog.Error("failed to send invitation email", "invitation_id", inv.ID, "email", inv.Email, "error", err)
		sent = false
	}

	slog.Info("invitation created", "invitation_id", inv.ID, "invited_by", actor.UserID, "email_sent", sent)

	response := s.toResponse(inv)
	response.RegistrationLink = link
	response.EmailSent = &sent
	return response, nil
}

// GetForRegistration implements invitation.InvitationService.
func (s *InvitationServiceImpl) GetForRegistration(ctx context.Context, id string) (invitation.InvitationResponse, error) {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return invitation.InvitationResponse{}, err
	}
	if err := inv.CheckUsable(s.now()); err != nil {
		return invitation.InvitationResponse{}, err
	}
	return s.toResponse(inv), nil
}

// ListPending implements invitation.InvitationService.
func (s *InvitationServiceImpl) ListPending(ctx context.Context, actor user.Actor) ([]invitation.InvitationResponse, error) {
	if !actor.IsAdmin() {
		return nil, user.ErrAdminPrivilegeRequired
	}

	invitations, err := s.InvitationRepository.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]invitation.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		r := s.toResponse(inv)
		r.RegistrationLink = s.registrationLink(inv.ID)
		responses = append(responses, r)
	}
	return responses, nil
}

func (s *InvitationServiceImpl) toResponse(inv invitation.Invitation) invitation.InvitationResponse {
	return invitation.InvitationResponse{
		ID:           inv.ID,
		Email:        inv.Email,
		Name:         inv.Name,
		Designation:  inv.Designation,
		Role:         inv.Role,
		DepartmentID: inv.DepartmentID,
		Status:       inv.Status,
		ExpiresAt:    inv.ExpiresAt.In(s.loc).Format(time.RFC3339),
		CreatedAt:    inv.CreatedAt.In(s.loc).Format(time.RFC3339),
	}
}
