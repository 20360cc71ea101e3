package http

import (
	"log/slog"
	"net/http"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/notice"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type NoticeHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type noticeHandlerImpl struct {
	noticeService notice.NoticeService
}

func NewNoticeHandler(noticeService notice.NoticeService) NoticeHandler {
	return &noticeHandlerImpl{noticeService: noticeService}
}

// Upload implements NoticeHandler.
func (h *noticeHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	cleanup, ok := parseMultipart(w, r)
	if !ok {
		return
	}
	defer cleanup()

	upload, ok := formFile(w, r, "file")
	if !ok {
		return
	}
	defer upload.Close()

	req := notice.UploadRequest{
		Description: r.FormValue("description"),
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		File:        upload.reader(),
	}

	result, err := h.noticeService.Upload(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Notice uploaded", "notice_id", result.ID, "uploaded_by", actor.UserID)
	response.Created(w, "Notice uploaded successfully", result)
}

// List implements NoticeHandler.
func (h *noticeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.noticeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notices)
}

// Download implements NoticeHandler.
func (h *noticeHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	n, body, err := h.noticeService.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	if err := serveAttachment(w, n.FileName, n.ContentType, n.SizeBytes, body); err != nil {
		slog.Error("Failed to stream notice", "notice_id", n.ID, "error", err)
	}
}

// Delete implements NoticeHandler.
func (h *noticeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.noticeService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notice deleted successfully", nil)
}
