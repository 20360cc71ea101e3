package weeklyreport

import (
	"context"
	"log/slog"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/weeklyreport"
)

type WeeklyReportServiceImpl struct {
	weeklyreport.WeeklyReportRepository
	loc *time.Location
	now func() time.Time
}

func NewWeeklyReportService(repo weeklyreport.WeeklyReportRepository, loc *time.Location, now func() time.Time) weeklyreport.WeeklyReportService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &WeeklyReportServiceImpl{WeeklyReportRepository: repo, loc: loc, now: now}
}

// Submit implements weeklyreport.WeeklyReportService.
func (s *WeeklyReportServiceImpl) Submit(ctx context.Context, actor user.Actor, req weeklyreport.SubmitRequest) (weeklyreport.WeeklyReportResponse, error) {
	if actor.UserID == "" {
		return weeklyreport.WeeklyReportResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return weeklyreport.WeeklyReportResponse{}, err
	}

	now := s.now().In(s.loc)
	weekEnding := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), s.loc)

	saved, err := s.Create(ctx, weeklyreport.WeeklyReport{
		UserID:      actor.UserID,
		Report:      req.Report,
		WeekEnding:  weekEnding,
		SubmittedAt: now,
		Month:       now.Month().String(),
		Year:        now.Year(),
	})
	if err != nil {
		return weeklyreport.WeeklyReportResponse{}, err
	}

	slog.Info("weekly report submitted", "user_id", actor.UserID, "report_id", saved.ID)
	return s.toResponse(saved), nil
}

// ListMine implements weeklyreport.WeeklyReportService.
func (s *WeeklyReportServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter weeklyreport.ListFilter) ([]weeklyreport.WeeklyReportResponse, error) {
	if actor.UserID == "" {
		return nil, user.ErrInsufficientPermissions
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	filter.UserID = &actor.UserID
	filter.DepartmentID = nil
	return s.list(ctx, filter)
}

// List implements weeklyreport.WeeklyReportService.
func (s *WeeklyReportServiceImpl) List(ctx context.Context, actor user.Actor, filter weeklyreport.ListFilter) ([]weeklyreport.WeeklyReportResponse, error) {
	if !actor.CanViewReports() {
		return nil, user.ErrInsufficientPermissions
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	filter.DepartmentID = nil
	if !actor.IsAdmin() {
		if actor.DepartmentID == nil {
			return nil, user.ErrInsufficientPermissions
		}
		filter.DepartmentID = actor.DepartmentID
	}
	return s.list(ctx, filter)
}

func (s *WeeklyReportServiceImpl) list(ctx context.Context, filter weeklyreport.ListFilter) ([]weeklyreport.WeeklyReportResponse, error) {
	reports, err := s.WeeklyReportRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]weeklyreport.WeeklyReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, s.toResponse(r))
	}
	return responses, nil
}

func (s *WeeklyReportServiceImpl) toResponse(r weeklyreport.WeeklyReport) weeklyreport.WeeklyReportResponse {
	return weeklyreport.WeeklyReportResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Report:      r.Report,
		WeekEnding:  r.WeekEnding.In(s.loc).Format(time.RFC3339Nano),
		SubmittedAt: r.SubmittedAt.In(s.loc).Format(time.RFC3339),
		Month:       r.Month,
		Year:        r.Year,
	}
}
