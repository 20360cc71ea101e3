package leave

import "errors"

var (
	ErrLeaveNotFound         = errors.New("leave application not found")
	ErrLeaveAlreadyProcessed = errors.New("leave application already processed")
	ErrHODApprovalPending    = errors.New("waiting for head of department approval")
	ErrCannotDecideOwn       = errors.New("you cannot approve or reject your own leave application")
	ErrAttachmentNotFound    = errors.New("leave application has no attachment")
)
