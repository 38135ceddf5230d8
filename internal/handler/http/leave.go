package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetCertificateEligibility(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// GetBalance handles GET /employees/{id}/leave-balance?year=
func (h *leaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	balance, err := h.leaveService.GetBalance(r.Context(), leave.BalanceRequest{
		EmployeeID: chi.URLParam(r, "id"),
		Year:       year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// GetCertificateEligibility handles GET /leave-requests/{id}/certificate. A
// refused request still returns the request summary.
func (h *leaveHandlerImpl) GetCertificateEligibility(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	result, err := h.leaveService.CertificateEligibility(r.Context(), requestID)
	if errors.Is(err, leave.ErrCertificateNotAllowed) {
		response.ErrorWithData(w, http.StatusUnprocessableEntity, "CERTIFICATE_NOT_ALLOWED", err.Error(), result)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
