package calendar

// AdvisoryResponse is the holiday/weekend banner sent alongside attendance data.
type AdvisoryResponse struct {
	Date       string   `json:"date"`
	Type       DayType  `json:"type"`
	Name       string   `json:"name,omitempty"`
	Category   Category `json:"category,omitempty"`
	IsWeekend  bool     `json:"is_weekend"`
	ShowBanner bool     `json:"show_banner"`
	Message    string   `json:"message,omitempty"`
}

func (d DayInfo) ToResponse() AdvisoryResponse {
	resp := AdvisoryResponse{
		Date:       d.Date.Format(DateLayout),
		Type:       d.Type,
		Name:       d.Name,
		IsWeekend:  d.IsWeekend,
		ShowBanner: d.IsNonWorking(),
		Message:    d.Message(),
	}
	if d.Holiday != nil {
		resp.Category = d.Holiday.Category
	}
	return resp
}

type ListHolidaysResponse struct {
	Year     int            `json:"year"`
	Holidays []HolidayEntry `json:"holidays"`
}
