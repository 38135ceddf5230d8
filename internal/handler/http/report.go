package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/export"
)

type ReportHandler interface {
	// Period Report
	GetPeriodReport(w http.ResponseWriter, r *http.Request)
	ExportPeriodReport(w http.ResponseWriter, r *http.Request)

	// Leave Balance Report
	GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func periodRequest(r *http.Request) (report.PeriodReportRequest, error) {
	query := r.URL.Query()

	req := report.PeriodReportRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}

	if raw := query.Get("include_days"); raw != "" {
		includeDays, err := strconv.ParseBool(raw)
		if err != nil {
			return req, err
		}
		req.IncludeDays = includeDays
	}
	return req, nil
}

// GetPeriodReport handles GET /reports/period?start_date=&end_date=&include_days=
func (h *reportHandlerImpl) GetPeriodReport(w http.ResponseWriter, r *http.Request) {
	req, err := periodRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid include_days parameter", nil)
		return
	}

	result, err := h.reportService.GeneratePeriodReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPeriodReport handles GET /reports/period/export?start_date=&end_date=&format=csv|xlsx
func (h *reportHandlerImpl) ExportPeriodReport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req, err := periodRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid include_days parameter", nil)
		return
	}

	result, err := h.reportService.GeneratePeriodReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := export.PeriodReport(format, result)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(result)))
	_, _ = w.Write(data)
}

// GetLeaveBalanceReport handles GET /reports/leave-balance?year=
func (h *reportHandlerImpl) GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	result, err := h.reportService.GenerateLeaveBalanceReport(r.Context(), report.LeaveBalanceReportRequest{Year: year})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
