package http

import (
	"encoding/json"
	"net/http"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/weeklyreport"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
)

type WeeklyReportHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type weeklyReportHandlerImpl struct {
	weeklyReportService weeklyreport.WeeklyReportService
}

func NewWeeklyReportHandler(weeklyReportService weeklyreport.WeeklyReportService) WeeklyReportHandler {
	return &weeklyReportHandlerImpl{weeklyReportService: weeklyReportService}
}

func reportFilterFromQuery(r *http.Request) (weeklyreport.ListFilter, error) {
	year, err := queryInt(r, "year")
	if err != nil {
		return weeklyreport.ListFilter{}, err
	}

	query := r.URL.Query()
	filter := weeklyreport.ListFilter{
		Month:  query.Get("month"),
		Year:   year,
		Search: query.Get("search"),
	}
	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	return filter, nil
}

// Submit implements WeeklyReportHandler.
func (h *weeklyReportHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req weeklyreport.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.weeklyReportService.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Weekly report submitted successfully", result)
}

// ListMine implements WeeklyReportHandler.
func (h *weeklyReportHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	filter, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	reports, err := h.weeklyReportService.ListMine(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reports)
}

// List implements WeeklyReportHandler.
func (h *weeklyReportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	filter, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	reports, err := h.weeklyReportService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reports)
}
