package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are calendar days; only their year, month and day are used.
type AttendanceRepository interface {
	// Create inserts a new record. A second record for the same user and day
	// fails with ErrAttendanceConflict.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update patches times, location and status of an existing record.
	// Start and end times that are already set are never cleared.
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByUserAndDate returns nil, nil when the user has no record that day
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// GetByUserAndDateForUpdate is GetByUserAndDate with a row lock; it must
	// run inside a transaction.
	GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// ListByUser returns the user's records with from <= date <= to, newest first
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
