package worktime

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator() *PeriodAggregator {
	return NewPeriodAggregator(policy.FromOptions(policy.Options{AnnualLeaveDays: 18}), shift.DefaultCutoffs())
}

func period(start, end string) Period {
	return Period{Start: day(start), End: day(end), Calendar: calendar.New(), KeepDays: true}
}

func TestPeriodAggregator_OrdinaryTuesday(t *testing.T) {
	totals, ok := newAggregator().Employee(
		period("2025-06-10", "2025-06-10"),
		permanent("e1"),
		[]timerecord.TimeRecord{rec("e1", "2025-06-10", "08:00", "17:00")},
		nil,
	)
	require.True(t, ok)
	require.Len(t, totals.Days, 1)

	assert.True(t, totals.HoursWorked.Equal(dec("8")), "hours = %s", totals.HoursWorked)
	assert.True(t, totals.OvertimeHours.IsZero())
	assert.Equal(t, 1, totals.DaysWorked)
	assert.Equal(t, 0, totals.RecuperationDays)
	assert.Equal(t, calendar.DayTypeWeekday, totals.Days[0].DayType)
}

func TestPeriodAggregator_HolidayTuesday(t *testing.T) {
	p := period("2025-06-10", "2025-06-10")
	p.Calendar.AddHoliday(day("2025-06-10"), "Company Day")

	totals, ok := newAggregator().Employee(
		p,
		permanent("e1"),
		[]timerecord.TimeRecord{rec("e1", "2025-06-10", "08:00", "17:00")},
		nil,
	)
	require.True(t, ok)

	assert.True(t, totals.HoursWorked.Equal(dec("8")))
	assert.Equal(t, 1, totals.RecuperationDays)
	assert.True(t, totals.OvertimeHours.IsZero())
	assert.Equal(t, calendar.DayTypeHoliday, totals.Days[0].DayType)
}

func TestPeriodAggregator_OvernightAcrossPeriodEdges(t *testing.T) {
	closed, cont, ok := shift.SplitOvernight(rec("e1", "2025-06-09", "22:00", "06:00"))
	require.True(t, ok)
	records := []timerecord.TimeRecord{closed, *cont}

	agg := newAggregator()

	// head date inside the period: counted once, whole shift
	totals, _ := agg.Employee(period("2025-06-09", "2025-06-10"), permanent("e1"), records, nil)
	assert.True(t, totals.HoursWorked.Equal(dec("8")), "hours = %s", totals.HoursWorked)
	assert.Equal(t, 1, totals.DaysWorked)
	assert.Equal(t, 1, totals.PresentDays)

	// head date before the period: nothing attributed to the tail day
	totals, _ = agg.Employee(period("2025-06-10", "2025-06-10"), permanent("e1"), records, nil)
	assert.True(t, totals.HoursWorked.IsZero())
	assert.Equal(t, 0, totals.DaysWorked)

	// head on the last day, tail fetched from the day after
	totals, _ = agg.Employee(period("2025-06-08", "2025-06-09"), permanent("e1"), records, nil)
	assert.True(t, totals.HoursWorked.Equal(dec("8")))
	assert.True(t, totals.OvertimeHours.IsZero())
}

func TestPeriodAggregator_WeekMixesRegimes(t *testing.T) {
	records := []timerecord.TimeRecord{
		rec("e1", "2025-06-09", "08:00", "18:00"), // Mon 10 raw, 9 net
		rec("e1", "2025-06-10", "08:00", "16:00"), // Tue 8
		// Wed no record
		rec("e1", "2025-06-12", "", "", withStatus(timerecord.DayStatusPresent)), // Thu declared present
		rec("e1", "2025-06-13", "08:00", "12:00"),                                // Fri 4
		// Sat no record
		rec("e1", "2025-06-15", "09:00", "15:00"), // Sun 6
	}
	p := period("2025-06-09", "2025-06-15")
	agg := newAggregator()

	perm, ok := agg.Employee(p, permanent("e1"), records, nil)
	require.True(t, ok)
	assert.Equal(t, 4, perm.DaysWorked)
	assert.Equal(t, 1, perm.DaysAbsent, "only Wednesday")
	assert.Equal(t, 1, perm.RecuperationDays)
	assert.Equal(t, 5, perm.PresentDays)
	assert.True(t, perm.HoursWorked.Equal(dec("27")), "hours = %s", perm.HoursWorked)
	assert.True(t, perm.OvertimeHours.Equal(dec("1")))
	assert.True(t, perm.NormalHours.Equal(dec("26")))

	temp, ok := agg.Employee(p, temporary("e1"), records, nil)
	require.True(t, ok)
	assert.Equal(t, 1, temp.PresenceOnlyDays)
	assert.True(t, temp.NormalHours.Equal(dec("20")), "normal = %s", temp.NormalHours)
	assert.True(t, temp.Premium25Hours.Equal(dec("1")))
	assert.True(t, temp.Premium50Hours.Equal(dec("6")))
	assert.True(t, temp.OvertimeHours.IsZero())
	assert.Equal(t, 0, temp.RecuperationDays)
}

func TestPeriodAggregator_SaturdayAbsenceByRole(t *testing.T) {
	table := policy.FromOptions(policy.Options{SaturdayAbsenceRoles: []string{"guard"}})
	agg := NewPeriodAggregator(table, shift.DefaultCutoffs())
	p := period("2025-06-14", "2025-06-15")

	guard := permanent("g1")
	guard.Role = "Guard"
	totals, _ := agg.Employee(p, guard, nil, nil)
	assert.Equal(t, 1, totals.DaysAbsent)

	totals, _ = agg.Employee(p, permanent("o1"), nil, nil)
	assert.Equal(t, 0, totals.DaysAbsent)
}

func TestPeriodAggregator_LeaveOverride(t *testing.T) {
	end := day("2025-06-11")
	leaves := []leave.LeaveRequest{
		{ID: "l1", EmployeeID: "e1", Type: leave.TypePaidLeave, Status: leave.StatusApproved, StartDate: day("2025-06-09"), EndDate: &end},
		{ID: "l2", EmployeeID: "e1", Type: leave.TypeSickLeave, Status: leave.StatusApproved, StartDate: day("2025-06-12")},
		{ID: "l3", EmployeeID: "e1", Type: leave.TypePaidLeave, Status: leave.StatusPending, StartDate: day("2025-06-13")},
		{ID: "l4", EmployeeID: "e2", Type: leave.TypePaidLeave, Status: leave.StatusApproved, StartDate: day("2025-06-13")},
		{ID: "l5", EmployeeID: "e1", Type: leave.TypeOther, Status: leave.StatusApproved, StartDate: day("2025-06-13")},
	}
	records := []timerecord.TimeRecord{
		rec("e1", "2025-06-10", "08:00", "17:00"), // inside paid leave, ignored
	}

	totals, ok := newAggregator().Employee(period("2025-06-09", "2025-06-13"), permanent("e1"), records, leaves)
	require.True(t, ok)
	assert.Equal(t, 3, totals.LeaveDays)
	assert.Equal(t, 1, totals.SickDays)
	assert.Equal(t, 1, totals.DaysAbsent, "pending and other leave do not excuse Friday")
	assert.True(t, totals.HoursWorked.IsZero())
	assert.Equal(t, 0, totals.PresentDays)
}

func TestPeriodAggregator_InactiveExclusion(t *testing.T) {
	agg := newAggregator()
	p := period("2025-06-09", "2025-06-13")

	gone := permanent("e1")
	gone.Status = employee.StatusInactive

	_, ok := agg.Employee(p, gone, nil, nil)
	assert.False(t, ok)

	// a record outside the period, fetched for edge merging, does not count
	_, ok = agg.Employee(p, gone, []timerecord.TimeRecord{rec("e1", "2025-06-08", "08:00", "12:00")}, nil)
	assert.False(t, ok)

	totals, ok := agg.Employee(p, gone, []timerecord.TimeRecord{rec("e1", "2025-06-09", "08:00", "12:00")}, nil)
	assert.True(t, ok)
	assert.Equal(t, 1, totals.DaysWorked)

	_, ok = agg.Employee(p, permanent("e2"), nil, nil)
	assert.True(t, ok, "active employees are always reported")
}

func TestPeriodAggregator_DepartmentFromRecords(t *testing.T) {
	records := []timerecord.TimeRecord{
		rec("e1", "2025-06-09", "08:00", "16:00", withDept("dept-old")),
		rec("e1", "2025-06-10", "08:00", "16:00", withDept("dept-old")),
	}
	totals, _ := newAggregator().Employee(period("2025-06-09", "2025-06-11"), permanent("e1"), records, nil)

	require.Len(t, totals.Days, 3)
	assert.Equal(t, "dept-old", *totals.Days[0].DepartmentID)
	assert.Equal(t, "dept-old", *totals.Days[1].DepartmentID)
	assert.Equal(t, "dept-current", *totals.Days[2].DepartmentID)

	depts := Departments([]worktime.PeriodTotals{totals})
	require.Len(t, depts, 2)
	assert.Equal(t, "dept-current", depts[0].DepartmentID)
	assert.Equal(t, 1, depts[0].DaysAbsent)
	assert.Equal(t, "dept-old", depts[1].DepartmentID)
	assert.Equal(t, 2, depts[1].DaysWorked)
	assert.True(t, depts[1].HoursWorked.Equal(dec("16")))
	assert.Equal(t, 1, depts[1].Employees)
}

func TestPresenceRate(t *testing.T) {
	records := []timerecord.TimeRecord{
		rec("e1", "2025-06-09", "08:00", "16:00"),
		rec("e1", "2025-06-10", "08:00", "16:00"),
		rec("e1", "2025-06-11", "08:00", "16:00"),
		rec("e2", "2025-06-09", "08:00", "16:00"),
		rec("e2", "2025-06-12", "08:00", "16:00"), // after today
	}
	report := newAggregator().Aggregate(Snapshot{
		CompanyID: "co-1",
		Period:    period("2025-06-09", "2025-06-13"),
		Today:     day("2025-06-11"),
		Employees: []employee.Employee{permanent("e1"), permanent("e2")},
		Records:   records,
	})

	// four presences over three effective days
	assert.True(t, report.PresenceRate.Equal(dec("1.33")), "rate = %s", report.PresenceRate)

	future := period("2025-07-01", "2025-07-31")
	future.Today = day("2025-06-11")
	assert.True(t, PresenceRate(report.Employees, future).IsZero())

	past := newAggregator().Aggregate(Snapshot{
		CompanyID: "co-1",
		Period:    period("2025-06-09", "2025-06-13"),
		Today:     day("2025-12-31"),
		Employees: []employee.Employee{permanent("e1"), permanent("e2")},
		Records:   records,
	})
	assert.True(t, past.PresenceRate.Equal(dec("1")), "rate = %s", past.PresenceRate)
}

func TestPeriodAggregator_StatusGatesHours(t *testing.T) {
	tests := []struct {
		name       string
		status     timerecord.DayStatus
		wantHours  string
		wantWorked int
		wantAbsent int
	}{
		{"present", timerecord.DayStatusPresent, "8", 1, 0},
		{"late", timerecord.DayStatusLate, "8", 1, 0},
		{"absent with clock times", timerecord.DayStatusAbsent, "0", 0, 1},
		{"unmarked draft", timerecord.DayStatusUnmarked, "0", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, ok := newAggregator().Employee(
				period("2025-06-10", "2025-06-10"),
				permanent("e1"),
				[]timerecord.TimeRecord{rec("e1", "2025-06-10", "08:00", "17:00", withStatus(tt.status))},
				nil,
			)
			require.True(t, ok)
			assert.True(t, totals.HoursWorked.Equal(dec(tt.wantHours)), "hours = %s", totals.HoursWorked)
			assert.Equal(t, tt.wantWorked, totals.DaysWorked)
			assert.Equal(t, tt.wantAbsent, totals.DaysAbsent)
			assert.Equal(t, tt.wantWorked, totals.PresentDays)
		})
	}
}

func TestPeriodAggregator_DeclaredPresentWithoutHours(t *testing.T) {
	totals, ok := newAggregator().Employee(
		period("2025-06-10", "2025-06-10"),
		permanent("e1"),
		[]timerecord.TimeRecord{rec("e1", "2025-06-10", "", "", withStatus(timerecord.DayStatusLate))},
		nil,
	)
	require.True(t, ok)
	assert.Equal(t, 0, totals.DaysWorked)
	assert.Equal(t, 0, totals.DaysAbsent)
	assert.Equal(t, 1, totals.PresentDays)
	assert.True(t, totals.HoursWorked.IsZero())
}

func TestPeriodAggregator_MultiYearWithoutDays(t *testing.T) {
	records := []timerecord.TimeRecord{
		rec("e1", "2022-03-01", "08:00", "16:00", withDept("dept-old")),
		rec("e1", "2025-06-10", "08:00", "16:00"),
	}
	p := NewPeriod(day("2022-01-01"), day("2025-12-31"), nil)
	p.Today = day("2025-06-10")

	totals, ok := newAggregator().Employee(p, permanent("e1"), records, nil)
	require.True(t, ok)
	assert.Nil(t, totals.Days)
	assert.Equal(t, 2, totals.DaysWorked)
	assert.Equal(t, 2, totals.PresentDaysToDate)
	require.Len(t, totals.Departments, 2)

	depts := Departments([]worktime.PeriodTotals{totals})
	require.Len(t, depts, 2)
	assert.Equal(t, "dept-old", depts[1].DepartmentID)
	assert.Equal(t, 1, depts[1].DaysWorked)
	assert.Equal(t, 1, depts[1].Employees)

	detailed := p
	detailed.KeepDays = true
	withDays, _ := newAggregator().Employee(detailed, permanent("e1"), records, nil)
	assert.Len(t, withDays.Days, calendar.DaysInclusive(p.Start, p.End))

	withDays.Days = nil
	assert.Equal(t, totals, withDays, "per-day rows must not change the totals")
}

func TestAggregate_SkipsUnknownEmployees(t *testing.T) {
	report := newAggregator().Aggregate(Snapshot{
		CompanyID: "co-1",
		Period:    period("2025-06-09", "2025-06-09"),
		Today:     time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Employees: []employee.Employee{permanent("e1")},
		Records: []timerecord.TimeRecord{
			rec("e1", "2025-06-09", "08:00", "16:00"),
			rec("ghost", "2025-06-09", "08:00", "16:00"),
		},
	})

	require.Len(t, report.Employees, 1)
	assert.Equal(t, "e1", report.Employees[0].EmployeeID)
	assert.Equal(t, "co-1", report.CompanyID)
}

func TestAggregate_Deterministic(t *testing.T) {
	snap := Snapshot{
		CompanyID: "co-1",
		Period:    period("2025-06-01", "2025-06-30"),
		Today:     day("2025-07-01"),
		Employees: []employee.Employee{permanent("e1"), temporary("e2")},
		Records: []timerecord.TimeRecord{
			rec("e1", "2025-06-03", "07:10", "19:25"),
			rec("e2", "2025-06-07", "21:00", "23:59:59"),
			rec("e2", "2025-06-08", "00:00:00", "05:45"),
		},
	}
	agg := newAggregator()
	assert.Equal(t, agg.Aggregate(snap), agg.Aggregate(snap))
}

func TestNewPeriod_SkipsInactiveHolidays(t *testing.T) {
	p := NewPeriod(day("2025-06-09"), day("2025-06-11"), []holiday.Holiday{
		{Date: day("2025-06-10"), Name: "Company Day", Active: true},
		{Date: day("2025-06-11"), Name: "Withdrawn", Active: false},
	})

	assert.Equal(t, calendar.DayTypeHoliday, p.Calendar.DayType(day("2025-06-10")))
	assert.Equal(t, calendar.DayTypeWeekday, p.Calendar.DayType(day("2025-06-11")))
}
