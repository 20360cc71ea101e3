package leave

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Level is a step of the approval chain. The head of department decides
// first, then an admin gives the final decision.
type Level string

const (
	LevelHOD Level = "hod"
	LevelCEO Level = "ceo"
)

type Approval struct {
	Status ApprovalStatus
	By     *string
	ByName *string
	At     *time.Time
	Note   *string
}

type Attachment struct {
	FileName    string
	ObjectKey   string
	ContentType string
	Size        int64
}

type LeaveApplication struct {
	ID           string
	UserID       string
	DepartmentID *string
	Reason       string
	FromTime     time.Time
	ToTime       time.Time
	Attachment   *Attachment
	Status       Status
	HOD          Approval
	CEO          Approval
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from users
	UserName  string
	UserEmail string
}

// NeedsHOD reports whether a head of department has to decide before an
// admin can. Applicants without a department skip that step.
func (a LeaveApplication) NeedsHOD() bool {
	return a.DepartmentID != nil
}

// AwaitingLevel returns the level that has to act next, or "" once the
// application is closed.
func (a LeaveApplication) AwaitingLevel() Level {
	if a.Status != StatusPending {
		return ""
	}
	if a.NeedsHOD() && a.HOD.Status == ApprovalPending {
		return LevelHOD
	}
	return LevelCEO
}
