package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	leavesvc "github.com/cmlabs-hris/hris-timesheet-go/internal/service/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/servicetest"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	worktimesvc "github.com/cmlabs-hris/hris-timesheet-go/internal/service/worktime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyID = "co-1"

var day = servicetest.Day

func record(id, employeeID, date, in, out string, dept *string) timerecord.TimeRecord {
	return timerecord.TimeRecord{
		ID:            id,
		EmployeeID:    employeeID,
		CompanyID:     companyID,
		Date:          day(date),
		ClockIn:       servicetest.StrPtr(in),
		ClockOut:      servicetest.StrPtr(out),
		DayStatus:     timerecord.DayStatusPresent,
		OvertimeHours: decimal.Zero,
		DepartmentID:  dept,
	}
}

func newTestService() report.ReportService {
	deptA := servicetest.StrPtr("dept-a")
	deptB := servicetest.StrPtr("dept-b")

	employees := &servicetest.EmployeeRepo{Employees: []employee.Employee{
		{ID: "e1", CompanyID: companyID, FullName: "Ana", ContractType: employee.ContractTypePermanent, Role: "operator", Status: employee.StatusActive, DepartmentID: deptA, HireDate: servicetest.DayPtr("2025-01-01")},
		{ID: "e2", CompanyID: companyID, FullName: "Budi", ContractType: employee.ContractTypeTemporary, Role: "operator", Status: employee.StatusActive, DepartmentID: deptB},
		{ID: "e3", CompanyID: companyID, FullName: "Citra", ContractType: employee.ContractTypePermanent, Role: "operator", Status: employee.StatusInactive},
		{ID: "e4", CompanyID: companyID, FullName: "Dewi", ContractType: employee.ContractTypePermanent, Role: "operator", Status: employee.StatusInactive},
	}}

	records := servicetest.NewRecordRepo(
		record("r1", "e1", "2025-06-10", "08:00", "17:00", deptA),
		record("r2", "e2", "2025-06-15", "08:00", "12:00", nil),
		record("r3", "e4", "2025-06-11", "08:00", "12:00", nil),
		record("r4", "ghost", "2025-06-12", "08:00", "12:00", nil),
		record("r5", "e1", "2025-05-02", "08:00", "17:00", deptA),
	)

	leaves := &servicetest.LeaveRepo{Requests: []leave.LeaveRequest{
		{ID: "l1", EmployeeID: "e1", CompanyID: companyID, Type: leave.TypePaidLeave, Status: leave.StatusApproved, StartDate: day("2025-03-03"), EndDate: servicetest.DayPtr("2025-03-05")},
	}}

	policies := policy.FromOptions(policy.Options{AnnualLeaveDays: 18})
	now := func() time.Time { return day("2026-01-10") }

	return NewReportService(
		records,
		employees,
		&servicetest.HolidayRepo{},
		leaves,
		worktimesvc.NewPeriodAggregator(policies, shift.DefaultCutoffs()),
		leavesvc.NewAccrualCalculator(policies, now),
		now,
	)
}

func TestReportService_GeneratePeriodReport(t *testing.T) {
	svc := newTestService()
	ctx := servicetest.CompanyContext(t, companyID)

	// Monday 9 June to Sunday 15 June 2025.
	resp, err := svc.GeneratePeriodReport(ctx, report.PeriodReportRequest{
		StartDate: "2025-06-09",
		EndDate:   "2025-06-15",
	})
	require.NoError(t, err)

	require.Len(t, resp.Employees, 3)
	assert.Equal(t, "e1", resp.Employees[0].EmployeeID)
	assert.Equal(t, "e2", resp.Employees[1].EmployeeID)
	assert.Equal(t, "e4", resp.Employees[2].EmployeeID)

	ana := resp.Employees[0]
	assert.Equal(t, "8.00", ana.HoursWorked)
	assert.Equal(t, "0.00", ana.OvertimeHours)
	assert.Equal(t, 1, ana.DaysWorked)
	assert.Equal(t, 4, ana.DaysAbsent)
	assert.Nil(t, ana.Days)

	budi := resp.Employees[1]
	assert.Equal(t, "temporary", budi.Regime)
	assert.Equal(t, "4.00", budi.Premium50Hours)
	assert.Equal(t, 5, budi.DaysAbsent)

	assert.Equal(t, "0.43", resp.PresenceRate)

	require.Len(t, resp.Departments, 3)
	assert.Equal(t, "", resp.Departments[0].DepartmentID)
	assert.Equal(t, "dept-a", resp.Departments[1].DepartmentID)
	assert.Equal(t, "8.00", resp.Departments[1].HoursWorked)
	assert.Equal(t, "dept-b", resp.Departments[2].DepartmentID)
}

func TestReportService_GeneratePeriodReport_MultiYear(t *testing.T) {
	svc := newTestService()
	ctx := servicetest.CompanyContext(t, companyID)

	resp, err := svc.GeneratePeriodReport(ctx, report.PeriodReportRequest{
		StartDate: "2020-01-01",
		EndDate:   "2025-12-31",
	})
	require.NoError(t, err)
	require.Len(t, resp.Employees, 3)

	ana := resp.Employees[0]
	assert.Equal(t, 2, ana.DaysWorked)
	assert.Equal(t, 3, ana.LeaveDays)
	assert.Equal(t, "16.00", ana.HoursWorked)
	assert.Nil(t, ana.Days)

	_, err = svc.GeneratePeriodReport(ctx, report.PeriodReportRequest{
		StartDate:   "2020-01-01",
		EndDate:     "2025-12-31",
		IncludeDays: true,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "include_days")
}

func TestReportService_GeneratePeriodReport_IncludeDays(t *testing.T) {
	svc := newTestService()
	ctx := servicetest.CompanyContext(t, companyID)

	resp, err := svc.GeneratePeriodReport(ctx, report.PeriodReportRequest{
		StartDate:   "2025-06-09",
		EndDate:     "2025-06-15",
		IncludeDays: true,
	})
	require.NoError(t, err)

	days := resp.Employees[0].Days
	require.Len(t, days, 7)
	assert.Equal(t, "2025-06-10", days[1].Date)
	assert.Equal(t, "8.00", days[1].HoursWorked)
	assert.Equal(t, "sunday", days[6].DayType)
}

func TestReportService_GeneratePeriodReport_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := servicetest.CompanyContext(t, companyID)
	req := report.PeriodReportRequest{StartDate: "2025-06-01", EndDate: "2025-06-30", IncludeDays: true}

	first, err := svc.GeneratePeriodReport(ctx, req)
	require.NoError(t, err)
	second, err := svc.GeneratePeriodReport(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReportService_GeneratePeriodReport_Errors(t *testing.T) {
	svc := newTestService()

	_, err := svc.GeneratePeriodReport(servicetest.CompanyContext(t, companyID), report.PeriodReportRequest{
		StartDate: "2025-06-15",
		EndDate:   "2025-06-09",
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.GeneratePeriodReport(context.Background(), report.PeriodReportRequest{
		StartDate: "2025-06-09",
		EndDate:   "2025-06-15",
	})
	assert.ErrorIs(t, err, user.ErrCompanyIDRequired)
}

func TestReportService_GenerateLeaveBalanceReport(t *testing.T) {
	svc := newTestService()
	ctx := servicetest.CompanyContext(t, companyID)

	resp, err := svc.GenerateLeaveBalanceReport(ctx, report.LeaveBalanceReportRequest{Year: 2025})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)

	ana := resp.Rows[0]
	assert.Equal(t, "Ana", ana.EmployeeName)
	assert.Equal(t, "18.00", ana.DaysAcquired)
	assert.Equal(t, "3.00", ana.DaysConsumed)
	assert.Equal(t, "15.00", ana.Balance)

	budi := resp.Rows[1]
	assert.Equal(t, 0, budi.MonthsWorked)
	assert.Equal(t, string(leave.BalanceExhausted), budi.Status)
}
