package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeRecordHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
	DeleteBulk(w http.ResponseWriter, r *http.Request)
}

type timeRecordHandlerImpl struct {
	timeRecordService timerecord.TimeRecordService
}

func NewTimeRecordHandler(timeRecordService timerecord.TimeRecordService) TimeRecordHandler {
	return &timeRecordHandlerImpl{
		timeRecordService: timeRecordService,
	}
}

// Create handles POST /time-records
func (h *timeRecordHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timerecord.CreateTimeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("invalid time record payload", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.timeRecordService.Capture(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time record created successfully", result)
}

// Update handles PUT /time-records/{id}
func (h *timeRecordHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req timerecord.UpdateTimeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("invalid time record payload", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.timeRecordService.Correct(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time record updated successfully", result)
}

// Validate handles POST /time-records/{id}/validate
func (h *timeRecordHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeRecordService.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time record validated successfully", result)
}

// DeleteBulk handles DELETE /time-records
func (h *timeRecordHandlerImpl) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	var req timerecord.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	deleted, err := h.timeRecordService.DeleteBulk(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, nil, &response.Meta{TotalItems: deleted})
}
