package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
)

type CalendarServiceImpl struct {
	public   map[string]calendar.HolidayEntry
	optional map[string]calendar.HolidayEntry
	entries  []calendar.HolidayEntry
}

// NewCalendarService indexes the holiday table. The table is validated once
// here and never mutated afterwards.
func NewCalendarService(entries []calendar.HolidayEntry) (calendar.Calendar, error) {
	svc := &CalendarServiceImpl{
		public:   make(map[string]calendar.HolidayEntry),
		optional: make(map[string]calendar.HolidayEntry),
		entries:  make([]calendar.HolidayEntry, 0, len(entries)),
	}

	for _, entry := range entries {
		if _, err := time.Parse(calendar.DateLayout, entry.Date); err != nil {
			return nil, fmt.Errorf("%w: %q", calendar.ErrInvalidHolidayDate, entry.Date)
		}

		var index map[string]calendar.HolidayEntry
		switch entry.Category {
		case calendar.CategoryPublic:
			index = svc.public
		case calendar.CategoryOptional:
			index = svc.optional
		default:
			return nil, fmt.Errorf("%w: %q", calendar.ErrInvalidHolidayCategory, entry.Category)
		}

		if _, exists := index[entry.Date]; exists {
			return nil, fmt.Errorf("%w: %s", calendar.ErrDuplicateHoliday, entry.Date)
		}
		index[entry.Date] = entry
		svc.entries = append(svc.entries, entry)
	}

	sort.SliceStable(svc.entries, func(i, j int) bool {
		return svc.entries[i].Date < svc.entries[j].Date
	})

	return svc, nil
}

// IsWeekend reports whether date is a Sunday or the 2nd/4th Saturday of its month.
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		weekOfMonth := (date.Day()-1)/7 + 1
		return weekOfMonth%2 == 0
	default:
		return false
	}
}

// Lookup implements calendar.Calendar.
func (s *CalendarServiceImpl) Lookup(date time.Time) calendar.DayInfo {
	key := date.Format(calendar.DateLayout)
	info := calendar.DayInfo{
		Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		IsWeekend: IsWeekend(date),
		Type:      calendar.DayTypeWorkday,
	}

	if h, ok := s.public[key]; ok {
		info.Holiday = &h
	} else if h, ok := s.optional[key]; ok {
		info.Holiday = &h
	}

	switch {
	case info.IsWeekend:
		info.Type = calendar.DayTypeWeekend
	case info.Holiday != nil && info.Holiday.Category == calendar.CategoryPublic:
		info.Type = calendar.DayTypePublicHoliday
	case info.Holiday != nil:
		info.Type = calendar.DayTypeOptionalHoliday
	}

	if info.Holiday != nil {
		info.Name = info.Holiday.Name
	} else if info.IsWeekend {
		info.Name = "Weekend"
	}

	return info
}

// ListHolidays implements calendar.Calendar.
func (s *CalendarServiceImpl) ListHolidays(year int) []calendar.HolidayEntry {
	prefix := fmt.Sprintf("%04d-", year)
	out := make([]calendar.HolidayEntry, 0)
	for _, entry := range s.entries {
		if strings.HasPrefix(entry.Date, prefix) {
			out = append(out, entry)
		}
	}
	return out
}
