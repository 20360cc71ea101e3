package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/leave"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	DownloadAttachment(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// Apply implements LeaveHandler. The attachment part is optional.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	cleanup, ok := parseMultipart(w, r)
	if !ok {
		return
	}
	defer cleanup()

	upload, ok := formFile(w, r, "attachment")
	if !ok {
		return
	}
	defer upload.Close()

	req := leave.ApplyRequest{
		Reason:      r.FormValue("reason"),
		FromTime:    r.FormValue("from_time"),
		ToTime:      r.FormValue("to_time"),
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		File:        upload.reader(),
	}

	result, err := h.leaveService.Apply(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave application submitted", "leave_id", result.ID, "user_id", actor.UserID)
	response.Created(w, "Leave application submitted successfully", result)
}

// ListMine implements LeaveHandler.
func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	apps, err := h.leaveService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, apps)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := leave.ListRequest{Status: query.Get("status")}
	if raw := query.Get("awaiting_me"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "awaiting_me", Message: "awaiting_me must be true or false"}})
			return
		}
		req.AwaitingMe = v
	}

	result, err := h.leaveService.List(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Decide implements LeaveHandler.
func (h *leaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req leave.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.leaveService.Decide(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application updated successfully", result)
}

// Cancel implements LeaveHandler.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.leaveService.Cancel(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application cancelled successfully", result)
}

// DownloadAttachment implements LeaveHandler.
func (h *leaveHandlerImpl) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	app, body, err := h.leaveService.OpenAttachment(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	a := app.Attachment
	if err := serveAttachment(w, a.FileName, a.ContentType, a.Size, body); err != nil {
		slog.Error("Failed to stream leave attachment", "leave_id", app.ID, "error", err)
	}
}
