package calendar

import "time"

// DateLayout is the ISO day format used by the holiday table.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryPublic   Category = "public"
	CategoryOptional Category = "optional"
)

type HolidayEntry struct {
	Date     string   `json:"date"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// DayType is the banner shown for a non-working day.
type DayType string

const (
	DayTypeWorkday         DayType = "Workday"
	DayTypeWeekend         DayType = "Weekend"
	DayTypePublicHoliday   DayType = "Public Holiday"
	DayTypeOptionalHoliday DayType = "Optional Holiday"
)

// DayInfo describes a calendar day for advisory display. It never gates an
// attendance action.
type DayInfo struct {
	Date      time.Time     `json:"-"`
	IsWeekend bool          `json:"is_weekend"`
	Holiday   *HolidayEntry `json:"holiday,omitempty"`
	Type      DayType       `json:"type"`
	Name      string        `json:"name,omitempty"`
}

// IsNonWorking reports whether the advisory banner should be shown.
func (d DayInfo) IsNonWorking() bool {
	return d.Type != DayTypeWorkday
}

// Message is the banner text, empty on ordinary workdays.
func (d DayInfo) Message() string {
	switch d.Type {
	case DayTypeWeekend:
		return "Today is a Weekend. If you're working today, you can still mark your attendance."
	case DayTypePublicHoliday, DayTypeOptionalHoliday:
		return "Today is a " + string(d.Type) + " (" + d.Name + "). If you're working today, you can still mark your attendance."
	default:
		return ""
	}
}
