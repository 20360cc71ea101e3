package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
)

// OfficeResolver finds the office nearest to a point. *geo.Resolver satisfies it.
type OfficeResolver interface {
	Resolve(point geo.GeoPoint) geo.Resolution
}

type AttendanceServiceImpl struct {
	tx postgresql.Transactor
	attendance.AttendanceRepository
	resolver OfficeResolver
	calendar calendar.Calendar
	loc      *time.Location
	now      func() time.Time
}

// timePtrToString safely converts a *time.Time to a string in loc.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format("2006-01-02 15:04:05")
	return &format
}

// today returns the current instant and the local calendar day it falls on.
func (s *AttendanceServiceImpl) today() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	return now, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// Submit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Submit(ctx context.Context, actor user.Actor, req attendance.SubmitRequest) (attendance.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SubmitResponse{}, err
	}
	if actor.UserID == "" {
		return attendance.SubmitResponse{}, attendance.ErrUnauthorized
	}

	var office *geo.OfficeLocation
	var distance *float64
	if req.Action.RequiresLocation() {
		point, err := req.Locator.Locate(ctx)
		if err != nil {
			if errors.Is(err, attendance.ErrLocation) {
				return attendance.SubmitResponse{}, err
			}
			return attendance.SubmitResponse{}, fmt.Errorf("%w: %v", attendance.ErrLocationUnavailable, err)
		}

		resolution := s.resolver.Resolve(point)
		if !resolution.Found() || resolution.DistanceMeters > attendance.MaxCheckInDistanceMeters {
			return attendance.SubmitResponse{}, &attendance.RangeError{DistanceMeters: resolution.DistanceMeters}
		}

		office = resolution.Office
		d := resolution.DistanceMeters
		distance = &d
	}

	now, day := s.today()

	// A concurrent first write of the day aborts our transaction with a unique
	// violation. The second attempt reads the winner's row and reports the
	// matching transition error instead.
	var saved attendance.Attendance
	var err error
	for attempt := 0; attempt < submitAttempts; attempt++ {
		saved, err = s.apply(ctx, actor.UserID, req.Action, day, now, office)
		if !errors.Is(err, attendance.ErrAttendanceConflict) {
			break
		}
	}
	if err != nil {
		return attendance.SubmitResponse{}, err
	}

	resp := attendance.SubmitResponse{
		Attendance:     mapAttendanceToResponse(saved, s.loc),
		DistanceMeters: distance,
		Message:        successMessage(req.Action, office),
		Advisory:       s.calendar.Lookup(now).ToResponse(),
	}
	if office != nil {
		resp.Office = office.Name
	}

	slog.Info("attendance marked",
		"user_id", actor.UserID,
		"action", req.Action,
		"date", day.Format(calendar.DateLayout),
		"office", resp.Office,
	)

	return resp, nil
}

const submitAttempts = 2

// apply runs one locked read-transition-write cycle for today's record.
func (s *AttendanceServiceImpl) apply(ctx context.Context, userID string, action attendance.Action, day, now time.Time, office *geo.OfficeLocation) (attendance.Attendance, error) {
	var saved attendance.Attendance
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.AttendanceRepository.GetByUserAndDateForUpdate(txCtx, userID, day)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		next, err := Transition(current, action, TransitionInput{
			UserID:   userID,
			Date:     day,
			Now:      now,
			Location: office,
		})
		if err != nil {
			return err
		}

		if current == nil {
			saved, err = s.AttendanceRepository.Create(txCtx, next)
			if err != nil {
				if errors.Is(err, attendance.ErrAttendanceConflict) {
					return err
				}
				return fmt.Errorf("failed to create attendance record: %w", err)
			}
			return nil
		}

		saved, err = s.AttendanceRepository.Update(txCtx, next)
		if err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	return saved, err
}

func successMessage(action attendance.Action, office *geo.OfficeLocation) string {
	var msg string
	switch action {
	case attendance.ActionStart:
		msg = "Work start time marked successfully"
	case attendance.ActionEnd:
		msg = "Work end time marked successfully"
	default:
		return "Out of office status marked successfully"
	}
	if office != nil {
		msg += " at " + office.Name
	}
	return msg
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, actor user.Actor) (attendance.TodayStatusResponse, error) {
	if actor.UserID == "" {
		return attendance.TodayStatusResponse{}, attendance.ErrUnauthorized
	}

	now, day := s.today()

	current, err := s.AttendanceRepository.GetByUserAndDate(ctx, actor.UserID, day)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayStatusResponse{
		Date:       day.Format(calendar.DateLayout),
		State:      current.State(),
		CanStart:   CanApply(current, attendance.ActionStart),
		CanEnd:     CanApply(current, attendance.ActionEnd),
		CanMarkOOO: CanApply(current, attendance.ActionOutOfOffice),
		Advisory:   s.calendar.Lookup(now).ToResponse(),
	}
	if current != nil {
		r := mapAttendanceToResponse(*current, s.loc)
		resp.Attendance = &r
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, actor user.Actor, filter attendance.MyAttendanceFilter) (attendance.MyAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.MyAttendanceResponse{}, err
	}
	if actor.UserID == "" {
		return attendance.MyAttendanceResponse{}, attendance.ErrUnauthorized
	}

	_, day := s.today()
	month := day.Month()
	if filter.Month != "" {
		month, _ = validator.ParseMonthName(filter.Month)
	}
	year := day.Year()
	if filter.Year != 0 {
		year = filter.Year
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, -1)

	records, err := s.AttendanceRepository.ListByUser(ctx, actor.UserID, from, to)
	if err != nil {
		return attendance.MyAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, mapAttendanceToResponse(att, s.loc))
	}

	return attendance.MyAttendanceResponse{
		Month:       month.String(),
		Year:        year,
		TotalCount:  len(responses),
		Attendances: responses,
	}, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if !actor.CanViewReports() {
		return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
	}

	filter.DepartmentID = nil
	if !actor.IsAdmin() {
		if actor.DepartmentID == nil {
			return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
		}
		filter.DepartmentID = actor.DepartmentID
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	// Map to response
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att, s.loc))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, actor user.Actor, id string) (attendance.AttendanceResponse, error) {
	att, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if !canView(actor, att) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	return mapAttendanceToResponse(att, s.loc), nil
}

func canView(actor user.Actor, att attendance.Attendance) bool {
	switch {
	case actor.UserID != "" && actor.UserID == att.UserID:
		return true
	case actor.IsAdmin():
		return true
	case actor.CanViewReports():
		return actor.DepartmentID != nil && att.UserDepartmentID != nil &&
			*actor.DepartmentID == *att.UserDepartmentID
	default:
		return false
	}
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance, loc *time.Location) attendance.AttendanceResponse {
	var userName string
	if att.UserName != nil {
		userName = *att.UserName
	}

	return attendance.AttendanceResponse{
		ID:        att.ID,
		UserID:    att.UserID,
		UserName:  userName,
		Date:      att.Date.Format(calendar.DateLayout),
		Month:     att.Month,
		StartTime: timePtrToString(att.StartTime, loc),
		EndTime:   timePtrToString(att.EndTime, loc),
		Location:  att.Location,
		Status:    att.Status,
		State:     att.State(),
		CreatedAt: att.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
		UpdatedAt: att.UpdatedAt.In(loc).Format("2006-01-02 15:04:05"),
	}
}

func NewAttendanceService(
	tx postgresql.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	resolver OfficeResolver,
	cal calendar.Calendar,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		resolver:             resolver,
		calendar:             cal,
		loc:                  loc,
		now:                  now,
	}
}
