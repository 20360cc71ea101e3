package attendance

import (
	"errors"
	"fmt"
	"math"
)

// Error classes. Every specific error below matches exactly one of them with errors.Is.
var (
	ErrInvalidTransition = errors.New("invalid attendance action")
	ErrLocation          = errors.New("location could not be determined")
	ErrNotWithinRange    = errors.New("not within range of any office")
)

// Attendance domain errors
var (
	// Illegal transitions
	ErrAlreadyStarted          = classify(ErrInvalidTransition, "work start time is already marked for today")
	ErrAlreadyCompleted        = classify(ErrInvalidTransition, "attendance for today is already completed")
	ErrNotStarted              = classify(ErrInvalidTransition, "work start time has not been marked yet")
	ErrMarkedOutOfOffice       = classify(ErrInvalidTransition, "you are marked out of office today")
	ErrCannotMarkOOOAfterStart = classify(ErrInvalidTransition, "cannot mark out of office after work has started")
	ErrAlreadyOutOfOffice      = classify(ErrInvalidTransition, "out of office is already marked for today")
	ErrUnknownAction           = classify(ErrInvalidTransition, "action must be one of: start, end, ooo")

	// Device location failures
	ErrLocationPermissionDenied = classify(ErrLocation, "Please allow location access to mark attendance")
	ErrLocationUnavailable      = classify(ErrLocation, "Location information is unavailable")
	ErrLocationTimeout          = classify(ErrLocation, "Location request timed out")

	// General errors
	ErrAttendanceConflict = errors.New("attendance for today was modified concurrently, please try again")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)

type classifiedError struct {
	class error
	msg   string
}

func (e *classifiedError) Error() string { return e.msg }
func (e *classifiedError) Unwrap() error { return e.class }

func classify(class error, msg string) error {
	return &classifiedError{class: class, msg: msg}
}

// RangeError rejects a check-in that is too far from every office. It
// matches ErrNotWithinRange.
type RangeError struct {
	// DistanceMeters is the distance to the nearest in-region office, or +Inf
	// when the position is outside the allowed region.
	DistanceMeters float64
}

func (e *RangeError) Error() string {
	if math.IsInf(e.DistanceMeters, 1) {
		return "You are not within the allowed geographical range for marking attendance."
	}
	return fmt.Sprintf("You are not within %d meters of any office location. Nearest office is %dm away.",
		int(MaxCheckInDistanceMeters), e.RoundedMeters())
}

func (e *RangeError) Unwrap() error { return ErrNotWithinRange }

// RoundedMeters is the distance rounded to the nearest meter, or -1 when out of region.
func (e *RangeError) RoundedMeters() int64 {
	if math.IsInf(e.DistanceMeters, 1) {
		return -1
	}
	return int64(math.Round(e.DistanceMeters))
}
