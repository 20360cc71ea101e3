package notice

import (
	"io"
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// UploadRequest is built by the handler from a multipart form.
type UploadRequest struct {
	FileName    string
	ContentType string
	Size        int64
	Description string
	File        io.Reader
}

func (r *UploadRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)

	var errs validator.ValidationErrors
	if r.File == nil || r.FileName == "" {
		errs = append(errs, validator.ValidationError{Field: "file", Message: ErrFileRequired.Error()})
	} else if r.Size > MaxFileSize {
		errs = append(errs, validator.ValidationError{Field: "file", Message: ErrFileTooLarge.Error()})
	}
	if r.Description == "" {
		errs = append(errs, validator.ValidationError{Field: "description", Message: ErrDescriptionMissing.Error()})
	} else if len([]rune(r.Description)) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not exceed 1000 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type NoticeResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Description string `json:"description"`
	URL         string `json:"url"`
	UploadedAt  string `json:"uploaded_at"`
}
