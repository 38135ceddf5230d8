package worktime

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// Regime selects how hours are split into pay buckets.
type Regime string

const (
	RegimePermanent Regime = "permanent"
	RegimeTemporary Regime = "temporary"
)

func RegimeOf(e employee.Employee) Regime {
	if e.IsTemporary() {
		return RegimeTemporary
	}
	return RegimePermanent
}

type LeaveKind string

const (
	LeaveKindNone LeaveKind = ""
	LeaveKindPaid LeaveKind = "paid"
	LeaveKindSick LeaveKind = "sick"
)

// Segment is one computable work interval. A night composite joins a
// late-evening segment with the next-day early-morning segment; its ClockOut
// belongs to the day after Date.
type Segment struct {
	EmployeeID     string
	Date           time.Time
	ClockIn        string
	ClockOut       string
	DayStatus      timerecord.DayStatus
	DepartmentID   *string
	NightComposite bool
	RecordIDs      []string
}

// DailyHours is the raw result of the daily calculator for one date.
type DailyHours struct {
	Hours           decimal.Decimal
	RawHours        decimal.Decimal
	BreakDeducted   bool
	NightQualifying bool

	// PermanentNightHours fall in the 22:00-06:00 window, TemporaryNightHours
	// in the 21:00-06:00 window.
	PermanentNightHours decimal.Decimal
	TemporaryNightHours decimal.Decimal
}

// DailyComputation is the classified outcome of one employee day.
type DailyComputation struct {
	Date         time.Time
	DayType      calendar.DayType
	DepartmentID *string

	HoursWorked  decimal.Decimal
	Present      bool
	Absent       bool
	Recuperation int

	IsLeaveDay bool
	LeaveKind  LeaveKind

	// PresenceOnly marks a declared-present temporary day with no hours.
	PresenceOnly bool

	NormalHours    decimal.Decimal
	OvertimeHours  decimal.Decimal
	Premium25Hours decimal.Decimal
	Premium50Hours decimal.Decimal
	NightHours     decimal.Decimal
}

// Worked reports whether the day counts as a day worked.
func (d DailyComputation) Worked() bool {
	return !d.IsLeaveDay && d.HoursWorked.IsPositive()
}

// PeriodTotals accumulates one employee's days over a reporting window.
type PeriodTotals struct {
	EmployeeID   string
	EmployeeName string
	EmployeeCode string
	Regime       Regime
	Start        time.Time
	End          time.Time

	DaysWorked       int
	DaysAbsent       int
	RecuperationDays int
	LeaveDays        int
	SickDays         int
	PresenceOnlyDays int

	// PresentDays counts days with valid presence. PresentDaysToDate stops at
	// the report's today and is this employee's share of the presence rate.
	PresentDays       int
	PresentDaysToDate int

	HoursWorked    decimal.Decimal
	NormalHours    decimal.Decimal
	OvertimeHours  decimal.Decimal
	Premium25Hours decimal.Decimal
	Premium50Hours decimal.Decimal
	NightHours     decimal.Decimal

	// Departments holds this employee's share of each department recorded on
	// their days, with Employees set to 1.
	Departments []DepartmentTotals

	// Days is filled only when per-day detail was asked for.
	Days []DailyComputation
}

// Add folds one classified day into the totals.
func (t *PeriodTotals) Add(d DailyComputation) {
	dept := t.department(d.DepartmentID)

	switch {
	case d.IsLeaveDay && d.LeaveKind == LeaveKindSick:
		t.SickDays++
		return
	case d.IsLeaveDay:
		t.LeaveDays++
		return
	}

	if d.Worked() {
		t.DaysWorked++
	}
	if d.Present {
		t.PresentDays++
	}
	if d.Absent {
		t.DaysAbsent++
	}
	if d.PresenceOnly {
		t.PresenceOnlyDays++
	}
	t.RecuperationDays += d.Recuperation

	t.HoursWorked = t.HoursWorked.Add(d.HoursWorked)
	t.NormalHours = t.NormalHours.Add(d.NormalHours)
	t.OvertimeHours = t.OvertimeHours.Add(d.OvertimeHours)
	t.Premium25Hours = t.Premium25Hours.Add(d.Premium25Hours)
	t.Premium50Hours = t.Premium50Hours.Add(d.Premium50Hours)
	t.NightHours = t.NightHours.Add(d.NightHours)

	if d.Worked() {
		dept.DaysWorked++
	}
	if d.Absent {
		dept.DaysAbsent++
	}
	dept.HoursWorked = dept.HoursWorked.Add(d.HoursWorked)
	dept.NormalHours = dept.NormalHours.Add(d.NormalHours)
	dept.OvertimeHours = dept.OvertimeHours.Add(d.OvertimeHours)
	dept.Premium25Hours = dept.Premium25Hours.Add(d.Premium25Hours)
	dept.Premium50Hours = dept.Premium50Hours.Add(d.Premium50Hours)
}

// department returns the share for id, creating it on first use. Days without
// a department are grouped under the empty ID.
func (t *PeriodTotals) department(id *string) *DepartmentTotals {
	key := ""
	if id != nil {
		key = *id
	}
	for i := range t.Departments {
		if t.Departments[i].DepartmentID == key {
			return &t.Departments[i]
		}
	}
	t.Departments = append(t.Departments, NewDepartmentTotals(key))
	d := &t.Departments[len(t.Departments)-1]
	d.Employees = 1
	return d
}

// DepartmentTotals rolls days up by the department recorded on the events.
type DepartmentTotals struct {
	DepartmentID   string
	Employees      int
	DaysWorked     int
	DaysAbsent     int
	HoursWorked    decimal.Decimal
	NormalHours    decimal.Decimal
	OvertimeHours  decimal.Decimal
	Premium25Hours decimal.Decimal
	Premium50Hours decimal.Decimal
}

func NewDepartmentTotals(id string) DepartmentTotals {
	return DepartmentTotals{
		DepartmentID:   id,
		HoursWorked:    decimal.Zero,
		NormalHours:    decimal.Zero,
		OvertimeHours:  decimal.Zero,
		Premium25Hours: decimal.Zero,
		Premium50Hours: decimal.Zero,
	}
}

// PeriodReport is the company-wide result for one window.
type PeriodReport struct {
	CompanyID    string
	Start        time.Time
	End          time.Time
	Employees    []PeriodTotals
	Departments  []DepartmentTotals
	PresenceRate decimal.Decimal
}
