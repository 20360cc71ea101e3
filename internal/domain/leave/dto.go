package leave

import (
	"io"
	"strings"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// Accepted forms for from/to. The first is what an HTML datetime-local
// input submits and is read in the office time zone.
var timeLayouts = []string{"2006-01-02T15:04", time.RFC3339}

// ParseTime reads a leave boundary.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ApplyRequest is built by the handler from a multipart form. The
// attachment is optional.
type ApplyRequest struct {
	Reason   string
	FromTime string
	ToTime   string

	FileName    string
	ContentType string
	Size        int64
	File        io.Reader

	// Set by Validate
	From time.Time
	To   time.Time
}

func (r *ApplyRequest) HasAttachment() bool {
	return r.File != nil && r.FileName != ""
}

func (r *ApplyRequest) Validate(loc *time.Location) error {
	r.Reason = strings.TrimSpace(r.Reason)

	var errs validator.ValidationErrors
	if r.Reason == "" {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	} else if len([]rune(r.Reason)) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 1000 characters"})
	}

	var fromOK, toOK bool
	r.From, fromOK = ParseTime(strings.TrimSpace(r.FromTime), loc)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from_time", Message: "from_time must be a valid date and time"})
	}
	r.To, toOK = ParseTime(strings.TrimSpace(r.ToTime), loc)
	if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to_time", Message: "to_time must be a valid date and time"})
	}
	if fromOK && toOK && !r.To.After(r.From) {
		errs = append(errs, validator.ValidationError{Field: "to_time", Message: "to_time must be after from_time"})
	}

	if r.HasAttachment() && r.Size > storage.MaxUploadSize {
		errs = append(errs, validator.ValidationError{Field: "file", Message: storage.ErrFileTooLarge.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected cancelled"`

	// AwaitingMe keeps only applications waiting on the caller's level
	AwaitingMe bool `json:"awaiting_me,omitempty"`
}

func (r *ListRequest) Validate() error {
	return validator.Struct(r)
}

type DecideRequest struct {
	ID     string `json:"-"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Note   string `json:"note" validate:"required,max=500"`
}

func (r *DecideRequest) Validate() error {
	r.Action = strings.TrimSpace(r.Action)
	r.Note = strings.TrimSpace(r.Note)
	return validator.Struct(r)
}

type ApprovalResponse struct {
	Status ApprovalStatus `json:"status"`
	By     *string        `json:"by,omitempty"`
	ByName *string        `json:"by_name,omitempty"`
	At     *string        `json:"at,omitempty"`
	Note   *string        `json:"note,omitempty"`
}

type AttachmentResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
}

type LeaveApplicationResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	UserName     string              `json:"user_name"`
	UserEmail    string              `json:"user_email"`
	DepartmentID *string             `json:"department_id,omitempty"`
	Reason       string              `json:"reason"`
	FromTime     string              `json:"from_time"`
	ToTime       string              `json:"to_time"`
	Attachment   *AttachmentResponse `json:"attachment,omitempty"`
	Status       Status              `json:"status"`
	HOD          ApprovalResponse    `json:"hod"`
	CEO          ApprovalResponse    `json:"ceo"`
	Awaiting     Level               `json:"awaiting,omitempty"`
	CreatedAt    string              `json:"created_at"`
}

// LeaveCounts tallies a listing by overall status.
type LeaveCounts struct {
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

func (c *LeaveCounts) Add(s Status) {
	switch s {
	case StatusPending:
		c.Pending++
	case StatusApproved:
		c.Approved++
	case StatusRejected:
		c.Rejected++
	case StatusCancelled:
		c.Cancelled++
	}
}

type ListLeaveResponse struct {
	Applications []LeaveApplicationResponse `json:"applications"`
	Counts       LeaveCounts                `json:"counts"`
}
