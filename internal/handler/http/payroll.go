package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	UpsertSalary(w http.ResponseWriter, r *http.Request)
	SalaryTemplate(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	DepartmentSalaries(w http.ResponseWriter, r *http.Request)

	UploadReport(w http.ResponseWriter, r *http.Request)
	ListReports(w http.ResponseWriter, r *http.Request)
	DownloadReport(w http.ResponseWriter, r *http.Request)
	DeleteReport(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func periodFromQuery(r *http.Request) (payroll.Period, error) {
	year, err := queryInt(r, "year")
	if err != nil {
		return payroll.Period{}, err
	}
	return payroll.Period{Month: r.URL.Query().Get("month"), Year: year}, nil
}

// UpsertSalary implements PayrollHandler.
func (h *payrollHandlerImpl) UpsertSalary(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req payroll.UpsertSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.UpsertSalary(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary saved successfully", result)
}

// SalaryTemplate implements PayrollHandler.
func (h *payrollHandlerImpl) SalaryTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.SalaryTemplate(r.Context(), actor, payroll.SalaryQuery{
		UserID: chi.URLParam(r, "userID"),
		Period: period,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Payslip implements PayrollHandler. Without user_id the caller's own
// payslip is returned.
func (h *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Payslip(r.Context(), actor, payroll.SalaryQuery{
		UserID: r.URL.Query().Get("user_id"),
		Period: period,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DepartmentSalaries implements PayrollHandler.
func (h *payrollHandlerImpl) DepartmentSalaries(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	period, err := periodFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.DepartmentSalaries(r.Context(), actor, payroll.DepartmentSalaryRequest{
		DepartmentID: r.URL.Query().Get("department_id"),
		Period:       period,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UploadReport implements PayrollHandler.
func (h *payrollHandlerImpl) UploadReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	cleanup, ok := parseMultipart(w, r)
	if !ok {
		return
	}
	defer cleanup()

	var year int
	if raw := strings.TrimSpace(r.FormValue("year")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "year", Message: "year must be a number"}})
			return
		}
		year = v
	}

	upload, ok := formFile(w, r, "file")
	if !ok {
		return
	}
	defer upload.Close()

	result, err := h.payrollService.UploadReport(r.Context(), actor, payroll.UploadReportRequest{
		UserID:      r.FormValue("user_id"),
		Period:      payroll.Period{Month: r.FormValue("month"), Year: year},
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		File:        upload.reader(),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Salary report uploaded", "report_id", result.ID, "uploaded_by", actor.UserID)
	response.Created(w, "Salary report uploaded successfully", result)
}

// ListReports implements PayrollHandler.
func (h *payrollHandlerImpl) ListReports(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	reports, err := h.payrollService.ListReports(r.Context(), actor, payroll.ListReportsRequest{
		UserID: r.URL.Query().Get("user_id"),
		Year:   year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reports)
}

// DownloadReport implements PayrollHandler.
func (h *payrollHandlerImpl) DownloadReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	report, body, err := h.payrollService.OpenReport(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	if err := serveAttachment(w, report.FileName, report.ContentType, report.SizeBytes, body); err != nil {
		slog.Error("Failed to stream salary report", "report_id", report.ID, "error", err)
	}
}

// DeleteReport implements PayrollHandler.
func (h *payrollHandlerImpl) DeleteReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.DeleteReport(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary report deleted successfully", nil)
}
