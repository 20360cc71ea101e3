package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
)

// multipartOverhead leaves room for the text fields and part headers.
const multipartOverhead = 1 << 20

// formUpload is an optional file part. File is nil when the part is absent.
type formUpload struct {
	File        multipart.File
	FileName    string
	ContentType string
	Size        int64
}

func (u formUpload) Close() {
	if u.File != nil {
		u.File.Close()
	}
}

// parseMultipart reads a form holding at most one upload. On failure it
// writes the response and returns false; otherwise the caller runs cleanup.
func parseMultipart(w http.ResponseWriter, r *http.Request) (cleanup func(), ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.HandleError(w, storage.ErrFileTooLarge)
			return nil, false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, false
	}
	return func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Error("Failed to remove multipart temp files", "error", err)
		}
	}, true
}

// formFile returns the named part. A missing part is not an error; the
// service decides whether the file is required.
func formFile(w http.ResponseWriter, r *http.Request, name string) (formUpload, bool) {
	file, header, err := r.FormFile(name)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return formUpload{}, true
	case err != nil:
		slog.Error("Failed to get file from form", "field", name, "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return formUpload{}, false
	}
	return formUpload{
		File:        file,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, true
}

// reader keeps a nil multipart.File from becoming a non-nil io.Reader.
func (u formUpload) reader() io.Reader {
	if u.File == nil {
		return nil
	}
	return u.File
}

// serveAttachment streams body as a download named fileName.
func serveAttachment(w http.ResponseWriter, fileName, contentType string, size int64, body io.Reader) error {
	w.Header().Set("Content-Type", contentType)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("X-Content-Type-Options", "nosniff")

	_, err := io.Copy(w, body)
	return err
}
