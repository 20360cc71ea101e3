package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
)

//go:embed data/holidays.json
var holidayFS embed.FS

type holidayFile struct {
	PublicHolidays   []holidayRow `json:"publicHolidays"`
	OptionalHolidays []holidayRow `json:"optionalHolidays"`
}

type holidayRow struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Holidays decodes the embedded holiday table. Public entries come first,
// each list in file order.
func Holidays() ([]calendar.HolidayEntry, error) {
	raw, err := holidayFS.ReadFile("data/holidays.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday table: %w", err)
	}
	return ParseHolidays(raw)
}

// ParseHolidays decodes a holiday table in the publicHolidays/optionalHolidays layout.
func ParseHolidays(raw []byte) ([]calendar.HolidayEntry, error) {
	var file holidayFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode holiday table: %w", err)
	}

	entries := make([]calendar.HolidayEntry, 0, len(file.PublicHolidays)+len(file.OptionalHolidays))
	for _, row := range file.PublicHolidays {
		entries = append(entries, calendar.HolidayEntry{Date: row.Date, Name: row.Name, Category: calendar.CategoryPublic})
	}
	for _, row := range file.OptionalHolidays {
		entries = append(entries, calendar.HolidayEntry{Date: row.Date, Name: row.Name, Category: calendar.CategoryOptional})
	}
	return entries, nil
}
