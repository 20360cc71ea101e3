package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/document"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DocumentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Respond(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	DownloadResponse(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

func (u formUpload) document() document.Upload {
	return document.Upload{FileName: u.FileName, ContentType: u.ContentType, Size: u.Size, File: u.reader()}
}

// Upload implements DocumentHandler.
func (h *documentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.documentService.Upload(r.Context(), actor, document.UploadRequest{
		Upload:  upload.document(),
		Message: r.FormValue("message"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Document uploaded", "document_id", result.ID, "user_id", actor.UserID)
	response.Created(w, "Document uploaded successfully", result)
}

// ListMine implements DocumentHandler.
func (h *documentHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	docs, err := h.documentService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, docs)
}

// Delete implements DocumentHandler.
func (h *documentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.documentService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document deleted successfully", nil)
}

// List implements DocumentHandler.
func (h *documentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	docs, err := h.documentService.List(r.Context(), actor, document.ListRequest{
		StartDate:    query.Get("start_date"),
		EndDate:      query.Get("end_date"),
		DepartmentID: query.Get("department_id"),
		Status:       query.Get("status"),
		Search:       query.Get("search"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, docs)
}

// Respond implements DocumentHandler. It takes a multipart form so the
// admin can attach a file; a JSON body is accepted when there is none.
func (h *documentHandlerImpl) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	req := document.RespondRequest{ID: chi.URLParam(r, "id")}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		req.Status, req.Message = body.Status, body.Message
	} else {
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

		req.Status = r.FormValue("status")
		req.Message = r.FormValue("message")
		req.Upload = upload.document()
	}

	result, err := h.documentService.Respond(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Response sent successfully", result)
}

// Download implements DocumentHandler.
func (h *documentHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doc, body, err := h.documentService.Open(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	f := doc.File
	if err := serveAttachment(w, f.FileName, f.ContentType, f.SizeBytes, body); err != nil {
		slog.Error("Failed to stream document", "document_id", doc.ID, "error", err)
	}
}

// DownloadResponse implements DocumentHandler.
func (h *documentHandlerImpl) DownloadResponse(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doc, body, err := h.documentService.OpenResponse(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	f := doc.ResponseFile
	if err := serveAttachment(w, f.FileName, f.ContentType, f.SizeBytes, body); err != nil {
		slog.Error("Failed to stream document response", "document_id", doc.ID, "error", err)
	}
}
