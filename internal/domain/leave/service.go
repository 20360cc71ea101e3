package leave

import (
	"context"
	"io"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type LeaveService interface {
	Apply(ctx context.Context, actor user.Actor, req ApplyRequest) (LeaveApplicationResponse, error)
	ListMine(ctx context.Context, actor user.Actor) ([]LeaveApplicationResponse, error)

	// List shows a department admin their department and an admin everything
	List(ctx context.Context, actor user.Actor, req ListRequest) (ListLeaveResponse, error)

	// Decide records the actor's decision at the level their role acts on
	Decide(ctx context.Context, actor user.Actor, req DecideRequest) (LeaveApplicationResponse, error)

	Cancel(ctx context.Context, actor user.Actor, id string) (LeaveApplicationResponse, error)

	// OpenAttachment returns the application and a reader over its
	// attachment. The caller closes it.
	OpenAttachment(ctx context.Context, actor user.Actor, id string) (LeaveApplication, io.ReadCloser, error)
}
