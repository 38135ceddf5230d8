package leave

import (
	"fmt"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
)

type BalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
}

func (r *BalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Year < 1970 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 1970 and 9999, got %d", r.Year),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BalanceResponse struct {
	EmployeeID         string `json:"employee_id"`
	EmployeeName       string `json:"employee_name,omitempty"`
	Year               int    `json:"year"`
	MonthsWorked       int    `json:"months_worked"`
	DaysAcquired       string `json:"days_acquired"`
	DaysConsumed       string `json:"days_consumed"`
	Balance            string `json:"balance"`
	DisplayedRemaining string `json:"displayed_remaining"`
	Status             string `json:"status"`
}

func NewBalanceResponse(r AccrualResult) BalanceResponse {
	return BalanceResponse{
		EmployeeID:         r.EmployeeID,
		Year:               r.Year,
		MonthsWorked:       r.MonthsWorked,
		DaysAcquired:       r.DaysAcquired.StringFixed(2),
		DaysConsumed:       r.DaysConsumed.StringFixed(2),
		Balance:            r.Balance.StringFixed(2),
		DisplayedRemaining: r.DisplayedRemaining.StringFixed(2),
		Status:             string(r.Status),
	}
}

type CertificateEligibilityResponse struct {
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Days       int    `json:"days"`
	Eligible   bool   `json:"eligible"`
}
