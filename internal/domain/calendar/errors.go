package calendar

import "errors"

var (
	ErrInvalidHolidayDate     = errors.New("holiday date must be in YYYY-MM-DD format")
	ErrInvalidHolidayCategory = errors.New("holiday category must be public or optional")
	ErrDuplicateHoliday       = errors.New("holiday table contains a duplicate date within a category")
)
