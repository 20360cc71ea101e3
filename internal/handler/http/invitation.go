package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/invitation"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	GetForRegistration(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{invitationService: invitationService}
}

// Create implements InvitationHandler.
func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req invitation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create invitation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.invitationService.CreateAndSend(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Invitation sent successfully"
	if result.EmailSent != nil && !*result.EmailSent {
		message = "Invitation created, but the email could not be sent. Share the registration link manually."
	}
	response.Created(w, message, result)
}

// ListPending implements InvitationHandler.
func (h *invitationHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, invitations)
}

// GetForRegistration implements InvitationHandler.
func (h *invitationHandlerImpl) GetForRegistration(w http.ResponseWriter, r *http.Request) {
	result, err := h.invitationService.GetForRegistration(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
