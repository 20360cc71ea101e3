package calendar

import (
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
	"github.com/apmb-hris/hrms-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(calendar.DateLayout, s, time.UTC)
	require.NoError(t, err)
	return d
}

func newTestCalendar(t *testing.T) calendar.Calendar {
	t.Helper()
	entries, err := fixtures.Holidays()
	require.NoError(t, err)
	cal, err := NewCalendarService(entries)
	require.NoError(t, err)
	return cal
}

func TestIsWeekend(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2026-10-03", false}, // 1st Saturday
		{"2026-10-10", true},  // 2nd Saturday
		{"2026-10-17", false}, // 3rd Saturday
		{"2026-10-24", true},  // 4th Saturday
		{"2026-10-31", false}, // 5th Saturday
		{"2026-10-11", true},  // Sunday
		{"2026-10-15", false}, // Thursday
	}
	for _, c := range cases {
		if got := IsWeekend(day(t, c.date)); got != c.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestLookup(t *testing.T) {
	cal := newTestCalendar(t)

	cases := []struct {
		name     string
		date     string
		wantType calendar.DayType
		wantName string
		banner   bool
	}{
		{"plain workday", "2026-10-15", calendar.DayTypeWorkday, "", false},
		{"public holiday", "2026-10-02", calendar.DayTypePublicHoliday, "Gandhi Jayanthi", true},
		{"optional holiday", "2026-12-24", calendar.DayTypeOptionalHoliday, "Christmas Eve", true},
		{"second saturday", "2026-11-14", calendar.DayTypeWeekend, "Weekend", true},
		{"holiday on a sunday keeps its name", "2026-11-08", calendar.DayTypeWeekend, "Deepavali", true},
		{"holiday on a third saturday", "2026-08-15", calendar.DayTypePublicHoliday, "Independence Day", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := cal.Lookup(day(t, c.date))
			assert.Equal(t, c.wantType, info.Type)
			assert.Equal(t, c.wantName, info.Name)
			assert.Equal(t, c.banner, info.IsNonWorking())
			assert.Equal(t, c.date, info.ToResponse().Date)
			if c.banner {
				assert.NotEmpty(t, info.Message())
			} else {
				assert.Empty(t, info.Message())
			}
		})
	}
}

func TestLookup_UsesLocalCalendarDay(t *testing.T) {
	cal := newTestCalendar(t)
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2026-10-01 20:00 UTC is already 2 October in India.
	info := cal.Lookup(time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC).In(ist))

	assert.Equal(t, calendar.DayTypePublicHoliday, info.Type)
	assert.Equal(t, "2026-10-02", info.ToResponse().Date)
}

func TestListHolidays(t *testing.T) {
	cal := newTestCalendar(t)

	list := cal.ListHolidays(2026)
	require.NotEmpty(t, list)
	for i, h := range list {
		assert.Equal(t, "2026", h.Date[:4])
		if i > 0 {
			assert.LessOrEqual(t, list[i-1].Date, h.Date)
		}
	}

	assert.Empty(t, cal.ListHolidays(1999))
}

func TestNewCalendarService_RejectsBadTable(t *testing.T) {
	_, err := NewCalendarService([]calendar.HolidayEntry{{Date: "02/10/2026", Name: "x", Category: calendar.CategoryPublic}})
	assert.ErrorIs(t, err, calendar.ErrInvalidHolidayDate)

	_, err = NewCalendarService([]calendar.HolidayEntry{{Date: "2026-10-02", Name: "x", Category: "regional"}})
	assert.ErrorIs(t, err, calendar.ErrInvalidHolidayCategory)

	_, err = NewCalendarService([]calendar.HolidayEntry{
		{Date: "2026-10-02", Name: "x", Category: calendar.CategoryPublic},
		{Date: "2026-10-02", Name: "y", Category: calendar.CategoryPublic},
	})
	assert.ErrorIs(t, err, calendar.ErrDuplicateHoliday)
}
