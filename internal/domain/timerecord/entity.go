package timerecord

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayStatus string

const (
	DayStatusPresent  DayStatus = "present"
	DayStatusAbsent   DayStatus = "absent"
	DayStatusLate     DayStatus = "late"
	DayStatusUnmarked DayStatus = "unmarked"
)

// IsPresence reports whether the status declares the employee on site.
func (s DayStatus) IsPresence() bool {
	return s == DayStatusPresent || s == DayStatusLate
}

func (s DayStatus) IsValid() bool {
	switch s {
	case DayStatusPresent, DayStatusAbsent, DayStatusLate, DayStatusUnmarked:
		return true
	}
	return false
}

// TimeRecord is one clock-in/clock-out entry for an employee on a civil day.
// ClockIn and ClockOut are time-of-day strings ("HH:MM" or "HH:MM:SS"), never
// crossing midnight once written through the reconciler.
type TimeRecord struct {
	ID            string
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	ClockIn       *string
	ClockOut      *string
	DayStatus     DayStatus
	Validated     bool
	OvertimeHours decimal.Decimal

	// DepartmentID is the employee's department when the event was captured.
	DepartmentID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r TimeRecord) HasClockTimes() bool {
	return r.ClockIn != nil && r.ClockOut != nil && *r.ClockIn != "" && *r.ClockOut != ""
}
