package attendance

import (
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
)

// MaxCheckInDistanceMeters is the geofence radius around an office. A check-in
// exactly on the boundary is accepted.
const MaxCheckInDistanceMeters = 500.0

type Status string

const (
	StatusPresent     Status = "present"
	StatusOutOfOffice Status = "ooo"
)

func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusOutOfOffice
}

// State is the position of a (user, day) record in the check-in lifecycle.
type State string

const (
	StateNone        State = "NONE"
	StateStarted     State = "STARTED"
	StateCompleted   State = "COMPLETED"
	StateOutOfOffice State = "OUT_OF_OFFICE"
)

type Action string

const (
	ActionStart       Action = "start"
	ActionEnd         Action = "end"
	ActionOutOfOffice Action = "ooo"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionStart, ActionEnd, ActionOutOfOffice:
		return true
	}
	return false
}

// RequiresLocation reports whether the action must pass the geofence check.
func (a Action) RequiresLocation() bool {
	return a == ActionStart || a == ActionEnd
}

type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	Month     string
	StartTime *time.Time
	EndTime   *time.Time
	Location  *geo.OfficeLocation
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined from users for listings
	UserName         *string
	UserDepartmentID *string
}

// State derives the lifecycle state. A nil record is NONE.
func (a *Attendance) State() State {
	if a == nil {
		return StateNone
	}
	switch {
	case a.Status == StatusOutOfOffice:
		return StateOutOfOffice
	case a.EndTime != nil:
		return StateCompleted
	case a.StartTime != nil:
		return StateStarted
	default:
		return StateNone
	}
}
