package worktime

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func seg(date, in, out string) worktime.Segment {
	return worktime.Segment{EmployeeID: "emp-1", Date: day(date), ClockIn: in, ClockOut: out, RecordIDs: []string{date + in}}
}

func night(date, in, out string) worktime.Segment {
	s := seg(date, in, out)
	s.NightComposite = true
	return s
}

type recordOpt func(*timerecord.TimeRecord)

func withDept(id string) recordOpt {
	return func(r *timerecord.TimeRecord) { r.DepartmentID = strPtr(id) }
}

func withStatus(s timerecord.DayStatus) recordOpt {
	return func(r *timerecord.TimeRecord) { r.DayStatus = s }
}

func rec(employeeID, date, in, out string, opts ...recordOpt) timerecord.TimeRecord {
	r := timerecord.TimeRecord{
		ID:         employeeID + "/" + date + "/" + in,
		EmployeeID: employeeID,
		CompanyID:  "co-1",
		Date:       day(date),
		DayStatus:  timerecord.DayStatusPresent,
	}
	if in != "" {
		r.ClockIn = strPtr(in)
	}
	if out != "" {
		r.ClockOut = strPtr(out)
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func permanent(id string) employee.Employee {
	return employee.Employee{
		ID:           id,
		CompanyID:    "co-1",
		FullName:     "Employee " + id,
		ContractType: employee.ContractTypePermanent,
		Role:         "operator",
		Status:       employee.StatusActive,
		DepartmentID: strPtr("dept-current"),
	}
}

func temporary(id string) employee.Employee {
	e := permanent(id)
	e.ContractType = employee.ContractTypeTemporary
	return e
}
