package calendar

import "time"

// Calendar is the read-only holiday and weekend lookup.
type Calendar interface {
	// Lookup classifies the calendar day of date.
	Lookup(date time.Time) DayInfo

	// ListHolidays returns the table entries for year ordered by date.
	ListHolidays(year int) []HolidayEntry
}
