package attendance

import (
	"context"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Submit runs one start, end or ooo action for the actor's current day
	Submit(ctx context.Context, actor user.Actor, req SubmitRequest) (SubmitResponse, error)

	// GetTodayStatus reports today's record and which actions are currently legal
	GetTodayStatus(ctx context.Context, actor user.Actor) (TodayStatusResponse, error)

	// GetMyAttendance retrieves one month of the actor's own records
	GetMyAttendance(ctx context.Context, actor user.Actor, filter MyAttendanceFilter) (MyAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin/department admin)
	ListAttendance(ctx context.Context, actor user.Actor, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, actor user.Actor, id string) (AttendanceResponse, error)
}
