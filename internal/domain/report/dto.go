package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
)

const (
	// MaxRangeDays bounds a period report. Totals do not grow with the range,
	// so this only keeps a mistyped year out.
	MaxRangeDays = 100 * 366

	// MaxDetailDays bounds a report that carries per-day rows.
	MaxDetailDays = 366
)

// ========================================
// PERIOD REPORT
// ========================================

type PeriodReportRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IncludeDays bool   `json:"include_days"`
}

func (r *PeriodReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	} else if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	} else if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}

	if len(errs) == 0 {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrInvalidDateRange.Error()})
		} else if days := calendar.DaysInclusive(start, end); days > MaxRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: fmt.Sprintf("%s, got %d", ErrRangeTooLong.Error(), days),
			})
		} else if r.IncludeDays && days > MaxDetailDays {
			errs = append(errs, validator.ValidationError{
				Field:   "include_days",
				Message: fmt.Sprintf("per-day detail is limited to %d days, got %d", MaxDetailDays, days),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the parsed bounds. Call after Validate.
func (r *PeriodReportRequest) Range() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type PeriodReport struct {
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	GeneratedAt  string `json:"generated_at"`
	PresenceRate string `json:"presence_rate"`

	Employees   []EmployeeTotals   `json:"employees"`
	Departments []DepartmentTotals `json:"departments"`
}

type EmployeeTotals struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	EmployeeCode string `json:"employee_code"`
	Regime       string `json:"regime"`

	DaysWorked       int `json:"days_worked"`
	DaysAbsent       int `json:"days_absent"`
	RecuperationDays int `json:"recuperation_days"`
	LeaveDays        int `json:"leave_days"`
	SickDays         int `json:"sick_days"`
	PresenceOnlyDays int `json:"presence_only_days"`

	HoursWorked    string `json:"hours_worked"`
	NormalHours    string `json:"normal_hours"`
	OvertimeHours  string `json:"overtime_hours"`
	Premium25Hours string `json:"premium_25_hours"`
	Premium50Hours string `json:"premium_50_hours"`
	NightHours     string `json:"night_hours"`

	Days []DayDetail `json:"days,omitempty"`
}

type DayDetail struct {
	Date           string  `json:"date"`
	DayType        string  `json:"day_type"`
	DepartmentID   *string `json:"department_id,omitempty"`
	HoursWorked    string  `json:"hours_worked"`
	NormalHours    string  `json:"normal_hours"`
	OvertimeHours  string  `json:"overtime_hours"`
	Premium25Hours string  `json:"premium_25_hours"`
	Premium50Hours string  `json:"premium_50_hours"`
	NightHours     string  `json:"night_hours"`
	Absent         bool    `json:"absent"`
	Recuperation   int     `json:"recuperation"`
	Leave          string  `json:"leave,omitempty"`
	PresenceOnly   bool    `json:"presence_only"`
}

type DepartmentTotals struct {
	DepartmentID   string `json:"department_id"`
	Employees      int    `json:"employees"`
	DaysWorked     int    `json:"days_worked"`
	DaysAbsent     int    `json:"days_absent"`
	HoursWorked    string `json:"hours_worked"`
	NormalHours    string `json:"normal_hours"`
	OvertimeHours  string `json:"overtime_hours"`
	Premium25Hours string `json:"premium_25_hours"`
	Premium50Hours string `json:"premium_50_hours"`
}

// NewPeriodReport renders the engine output. Per-day rows are kept only when
// includeDays is set.
func NewPeriodReport(r worktime.PeriodReport, includeDays bool, generatedAt time.Time) PeriodReport {
	out := PeriodReport{
		PeriodStart:  calendar.Key(r.Start),
		PeriodEnd:    calendar.Key(r.End),
		GeneratedAt:  generatedAt.UTC().Format(time.RFC3339),
		PresenceRate: r.PresenceRate.StringFixed(2),
		Employees:    make([]EmployeeTotals, 0, len(r.Employees)),
		Departments:  make([]DepartmentTotals, 0, len(r.Departments)),
	}

	for _, t := range r.Employees {
		row := EmployeeTotals{
			EmployeeID:       t.EmployeeID,
			EmployeeName:     t.EmployeeName,
			EmployeeCode:     t.EmployeeCode,
			Regime:           string(t.Regime),
			DaysWorked:       t.DaysWorked,
			DaysAbsent:       t.DaysAbsent,
			RecuperationDays: t.RecuperationDays,
			LeaveDays:        t.LeaveDays,
			SickDays:         t.SickDays,
			PresenceOnlyDays: t.PresenceOnlyDays,
			HoursWorked:      t.HoursWorked.StringFixed(2),
			NormalHours:      t.NormalHours.StringFixed(2),
			OvertimeHours:    t.OvertimeHours.StringFixed(2),
			Premium25Hours:   t.Premium25Hours.StringFixed(2),
			Premium50Hours:   t.Premium50Hours.StringFixed(2),
			NightHours:       t.NightHours.StringFixed(2),
		}
		if includeDays {
			for _, d := range t.Days {
				row.Days = append(row.Days, DayDetail{
					Date:           calendar.Key(d.Date),
					DayType:        string(d.DayType),
					DepartmentID:   d.DepartmentID,
					HoursWorked:    d.HoursWorked.StringFixed(2),
					NormalHours:    d.NormalHours.StringFixed(2),
					OvertimeHours:  d.OvertimeHours.StringFixed(2),
					Premium25Hours: d.Premium25Hours.StringFixed(2),
					Premium50Hours: d.Premium50Hours.StringFixed(2),
					NightHours:     d.NightHours.StringFixed(2),
					Absent:         d.Absent,
					Recuperation:   d.Recuperation,
					Leave:          string(d.LeaveKind),
					PresenceOnly:   d.PresenceOnly,
				})
			}
		}
		out.Employees = append(out.Employees, row)
	}

	for _, d := range r.Departments {
		out.Departments = append(out.Departments, DepartmentTotals{
			DepartmentID:   d.DepartmentID,
			Employees:      d.Employees,
			DaysWorked:     d.DaysWorked,
			DaysAbsent:     d.DaysAbsent,
			HoursWorked:    d.HoursWorked.StringFixed(2),
			NormalHours:    d.NormalHours.StringFixed(2),
			OvertimeHours:  d.OvertimeHours.StringFixed(2),
			Premium25Hours: d.Premium25Hours.StringFixed(2),
			Premium50Hours: d.Premium50Hours.StringFixed(2),
		})
	}

	return out
}

// ========================================
// LEAVE BALANCE REPORT
// ========================================

type LeaveBalanceReportRequest struct {
	Year int `json:"year"`
}

func (r *LeaveBalanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

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

type LeaveBalanceReport struct {
	GeneratedAt string `json:"generated_at"`
	Year        int    `json:"year"`

	Rows []leave.BalanceResponse `json:"rows"`
}
