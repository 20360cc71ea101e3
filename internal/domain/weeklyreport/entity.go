package weeklyreport

import "time"

// WeeklyReport is a free-text work summary a user files at the end of a week.
type WeeklyReport struct {
	ID     string
	UserID string
	Report string
	// WeekEnding is the last instant of the local day the report was filed on.
	WeekEnding  time.Time
	SubmittedAt time.Time
	Month       string // English month name of SubmittedAt, e.g. "October"
	Year        int

	// Populated from a JOIN with users
	UserName         *string
	UserDepartmentID *string
}
