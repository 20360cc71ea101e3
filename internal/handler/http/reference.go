package http

import (
	"net/http"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/calendar"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// ReferenceHandler serves the static office and holiday tables.
type ReferenceHandler interface {
	Offices(w http.ResponseWriter, r *http.Request)
	Holidays(w http.ResponseWriter, r *http.Request)
}

type referenceHandlerImpl struct {
	resolver *geo.Resolver
	calendar calendar.Calendar
	loc      *time.Location
	now      func() time.Time
}

func NewReferenceHandler(resolver *geo.Resolver, cal calendar.Calendar, loc *time.Location) ReferenceHandler {
	return &referenceHandlerImpl{resolver: resolver, calendar: cal, loc: loc, now: time.Now}
}

// Offices implements ReferenceHandler.
func (h *referenceHandlerImpl) Offices(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.resolver.Offices())
}

// Holidays implements ReferenceHandler. The year defaults to the current local year.
func (h *referenceHandlerImpl) Holidays(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if year == 0 {
		year = h.now().In(h.loc).Year()
	}
	if year < 2000 || year > 9999 {
		response.HandleError(w, validator.ValidationErrors{{Field: "year", Message: "year must be between 2000 and 9999"}})
		return
	}

	response.Success(w, calendar.ListHolidaysResponse{
		Year:     year,
		Holidays: h.calendar.ListHolidays(year),
	})
}
