package document

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// File is a stored object with the name the client gave it.
type File struct {
	FileName    string
	ObjectKey   string
	ContentType string
	SizeBytes   int64
}

// Document is a file an employee submits to the admins, together with the
// admins' answer once it has been reviewed.
type Document struct {
	ID         string
	UserID     string
	File       File
	Message    string
	Status     Status
	UploadedAt time.Time

	ResponseMessage *string
	ResponseFile    *File
	RespondedBy     *string
	RespondedAt     *time.Time

	// Joined from users and departments
	UserName       string
	UserEmail      string
	DepartmentID   *string
	DepartmentName *string
}
