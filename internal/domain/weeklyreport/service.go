package weeklyreport

import (
	"context"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type WeeklyReportService interface {
	Submit(ctx context.Context, actor user.Actor, req SubmitRequest) (WeeklyReportResponse, error)

	// ListMine lists the actor's own reports
	ListMine(ctx context.Context, actor user.Actor, filter ListFilter) ([]WeeklyReportResponse, error)

	// List lists reports across users; department admins only see their department
	List(ctx context.Context, actor user.Actor, filter ListFilter) ([]WeeklyReportResponse, error)
}
