package weeklyreport

import "context"

type WeeklyReportRepository interface {
	Create(ctx context.Context, report WeeklyReport) (WeeklyReport, error)

	// List returns the reports matching filter, newest first
	List(ctx context.Context, filter ListFilter) ([]WeeklyReport, error)
}
