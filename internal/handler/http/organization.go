package http

import (
	"encoding/json"
	"net/http"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OrganizationHandler interface {
	CreateOrganization(w http.ResponseWriter, r *http.Request)
	ListOrganizations(w http.ResponseWriter, r *http.Request)
	UpdateOrganization(w http.ResponseWriter, r *http.Request)
	DeleteOrganization(w http.ResponseWriter, r *http.Request)

	CreateDepartment(w http.ResponseWriter, r *http.Request)
	GetDepartment(w http.ResponseWriter, r *http.Request)
	UpdateDepartment(w http.ResponseWriter, r *http.Request)
	DeleteDepartment(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	organizationService organization.OrganizationService
}

func NewOrganizationHandler(organizationService organization.OrganizationService) OrganizationHandler {
	return &organizationHandlerImpl{organizationService: organizationService}
}

// CreateOrganization implements OrganizationHandler.
func (h *organizationHandlerImpl) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req organization.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.organizationService.CreateOrganization(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Organization created successfully", result)
}

// ListOrganizations implements OrganizationHandler.
func (h *organizationHandlerImpl) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.organizationService.ListOrganizations(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, orgs)
}

// UpdateOrganization implements OrganizationHandler.
func (h *organizationHandlerImpl) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req organization.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.organizationService.UpdateOrganization(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Organization updated successfully", result)
}

// DeleteOrganization implements OrganizationHandler.
func (h *organizationHandlerImpl) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.organizationService.DeleteOrganization(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Organization deleted successfully", nil)
}

// CreateDepartment implements OrganizationHandler.
func (h *organizationHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req organization.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.OrganizationID = chi.URLParam(r, "id")

	result, err := h.organizationService.CreateDepartment(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created successfully", result)
}

// GetDepartment implements OrganizationHandler.
func (h *organizationHandlerImpl) GetDepartment(w http.ResponseWriter, r *http.Request) {
	dept, err := h.organizationService.GetDepartment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, dept)
}

// UpdateDepartment implements OrganizationHandler.
func (h *organizationHandlerImpl) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req organization.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.organizationService.UpdateDepartment(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department updated successfully", result)
}

// DeleteDepartment implements OrganizationHandler.
func (h *organizationHandlerImpl) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.organizationService.DeleteDepartment(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department deleted successfully", nil)
}
