package timerecord

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
)

// ========================================
// TIME RECORD DTOs
// ========================================

type CreateTimeRecordRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	ClockIn      *string `json:"clock_in,omitempty" validate:"omitempty,timeofday"`
	ClockOut     *string `json:"clock_out,omitempty" validate:"omitempty,timeofday"`
	DayStatus    string  `json:"day_status" validate:"required,oneof=present absent late unmarked"`
	DepartmentID *string `json:"department_id,omitempty"`
}

func (r *CreateTimeRecordRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.ClockOut != nil && r.ClockIn == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in is required when clock_out is set",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedDate returns the record day. Call after Validate.
func (r *CreateTimeRecordRequest) ParsedDate() time.Time {
	d, _ := validator.IsValidDate(r.Date)
	return d
}

type UpdateTimeRecordRequest struct {
	ID        string  `json:"-"`
	ClockIn   *string `json:"clock_in,omitempty" validate:"omitempty,timeofday"`
	ClockOut  *string `json:"clock_out,omitempty" validate:"omitempty,timeofday"`
	DayStatus *string `json:"day_status,omitempty" validate:"omitempty,oneof=present absent late unmarked"`
}

func (r *UpdateTimeRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if err := validator.Struct(r); err != nil {
		tagErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, tagErrs...)
	}

	if r.ClockIn == nil && r.ClockOut == nil && r.DayStatus == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of clock_in, clock_out or day_status is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500"`
}

func (r *BulkDeleteRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	for _, id := range r.IDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "ids",
				Message: "invalid id: " + id,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimeRecordResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	ClockIn       *string `json:"clock_in,omitempty"`
	ClockOut      *string `json:"clock_out,omitempty"`
	DayStatus     string  `json:"day_status"`
	Validated     bool    `json:"validated"`
	OvertimeHours string  `json:"overtime_hours"`
	DepartmentID  *string `json:"department_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// CaptureResponse carries the stored record and, when the shift crossed
// midnight, the continuation record created for the next day.
type CaptureResponse struct {
	Record       TimeRecordResponse  `json:"record"`
	Continuation *TimeRecordResponse `json:"continuation,omitempty"`
	Split        bool                `json:"split"`
}

func NewTimeRecordResponse(r TimeRecord) TimeRecordResponse {
	return TimeRecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Date:          r.Date.Format("2006-01-02"),
		ClockIn:       r.ClockIn,
		ClockOut:      r.ClockOut,
		DayStatus:     string(r.DayStatus),
		Validated:     r.Validated,
		OvertimeHours: r.OvertimeHours.StringFixed(2),
		DepartmentID:  r.DepartmentID,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}
