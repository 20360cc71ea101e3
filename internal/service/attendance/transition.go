package attendance

import (
	"fmt"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
)

// TransitionInput carries what a transition may write into a record.
type TransitionInput struct {
	UserID string
	// Date is the local calendar day the record belongs to.
	Date time.Time
	Now  time.Time
	// Location is the office the action was attributed to. It is ignored for ooo.
	Location *geo.OfficeLocation
}

// Transition applies action to the user's record for the day and returns the
// record to persist. current may be nil when no record exists yet. current is
// never modified, and start time, end time and location are never cleared.
//
//	NONE    --start--> STARTED      NONE --ooo--> OUT_OF_OFFICE
//	STARTED --end----> COMPLETED
func Transition(current *attendance.Attendance, action attendance.Action, in TransitionInput) (attendance.Attendance, error) {
	state := current.State()

	switch action {
	case attendance.ActionStart:
		switch state {
		case attendance.StateNone:
			next := seed(current, in)
			now := in.Now
			next.Status = attendance.StatusPresent
			next.StartTime = &now
			if in.Location != nil {
				next.Location = copyOffice(in.Location)
			}
			return next, nil
		case attendance.StateStarted:
			return attendance.Attendance{}, attendance.ErrAlreadyStarted
		case attendance.StateCompleted:
			return attendance.Attendance{}, attendance.ErrAlreadyCompleted
		case attendance.StateOutOfOffice:
			return attendance.Attendance{}, attendance.ErrMarkedOutOfOffice
		}

	case attendance.ActionEnd:
		switch state {
		case attendance.StateStarted:
			next := *current
			now := in.Now
			next.EndTime = &now
			if in.Location != nil {
				next.Location = copyOffice(in.Location)
			}
			return next, nil
		case attendance.StateNone:
			return attendance.Attendance{}, attendance.ErrNotStarted
		case attendance.StateCompleted:
			return attendance.Attendance{}, attendance.ErrAlreadyCompleted
		case attendance.StateOutOfOffice:
			return attendance.Attendance{}, attendance.ErrMarkedOutOfOffice
		}

	case attendance.ActionOutOfOffice:
		switch state {
		case attendance.StateNone:
			next := seed(current, in)
			next.Status = attendance.StatusOutOfOffice
			return next, nil
		case attendance.StateStarted, attendance.StateCompleted:
			return attendance.Attendance{}, attendance.ErrCannotMarkOOOAfterStart
		case attendance.StateOutOfOffice:
			return attendance.Attendance{}, attendance.ErrAlreadyOutOfOffice
		}

	default:
		return attendance.Attendance{}, attendance.ErrUnknownAction
	}

	return attendance.Attendance{}, fmt.Errorf("unhandled attendance state %q", state)
}

// CanApply reports whether action is legal for current.
func CanApply(current *attendance.Attendance, action attendance.Action) bool {
	_, err := Transition(current, action, TransitionInput{})
	return err == nil
}

// seed copies current, or starts a fresh record for the day.
func seed(current *attendance.Attendance, in TransitionInput) attendance.Attendance {
	if current != nil {
		return *current
	}
	return attendance.Attendance{
		UserID: in.UserID,
		Date:   in.Date,
		Month:  in.Date.Month().String(),
	}
}

func copyOffice(o *geo.OfficeLocation) *geo.OfficeLocation {
	c := *o
	return &c
}
