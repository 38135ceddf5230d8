package worktime

import (
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/service/shift"
	"github.com/shopspring/decimal"
)

// Period is a reporting window with the holiday calendar that applies to it.
type Period struct {
	Start    time.Time
	End      time.Time
	Calendar *calendar.Calendar

	// Today caps the days counted towards the presence rate. Zero counts
	// the whole window.
	Today time.Time

	// KeepDays retains every DailyComputation on the totals. Without it an
	// employee's totals stay the same size whatever the window length.
	KeepDays bool
}

// NewPeriod builds a period whose calendar holds the active holidays given.
func NewPeriod(start, end time.Time, holidays []holiday.Holiday) Period {
	cal := calendar.New()
	for _, h := range holidays {
		if h.Active {
			cal.AddHoliday(h.Date, h.Name)
		}
	}
	return Period{Start: calendar.Civil(start), End: calendar.Civil(end), Calendar: cal}
}

// FetchRange widens the period by one day on each side so overnight shifts
// crossing either edge can be merged before attribution.
func (p Period) FetchRange() (time.Time, time.Time) {
	return calendar.AddDays(p.Start, -1), calendar.AddDays(p.End, 1)
}

// EffectiveEnd is the last day counted towards the presence rate.
func (p Period) EffectiveEnd() time.Time {
	end := calendar.Civil(p.End)
	if !p.Today.IsZero() {
		if t := calendar.Civil(p.Today); t.Before(end) {
			return t
		}
	}
	return end
}

func (p Period) contains(d time.Time) bool {
	d = calendar.Civil(d)
	return !d.Before(calendar.Civil(p.Start)) && !d.After(calendar.Civil(p.End))
}

// PeriodAggregator walks an employee's days through the daily calculator and
// the classifier.
type PeriodAggregator struct {
	daily      *DailyHoursCalculator
	classifier *OvertimeClassifier
	policies   *policy.Table
	cutoffs    shift.Cutoffs
}

func NewPeriodAggregator(policies *policy.Table, cutoffs shift.Cutoffs) *PeriodAggregator {
	return &PeriodAggregator{
		daily:      NewDailyHoursCalculator(),
		classifier: NewOvertimeClassifier(),
		policies:   policies,
		cutoffs:    cutoffs,
	}
}

// Employee computes one employee's totals. records should cover
// Period.FetchRange; leaves may hold requests of any employee or status.
// It returns false when the employee is inactive and has no record in the
// period.
func (a *PeriodAggregator) Employee(p Period, emp employee.Employee, records []timerecord.TimeRecord, leaves []leave.LeaveRequest) (worktime.PeriodTotals, bool) {
	if !emp.IsActive() && !hasRecordIn(p, records) {
		return worktime.PeriodTotals{}, false
	}

	segs := shift.MergeForComputation(records, a.cutoffs)

	segsByDate := make(map[string][]worktime.Segment)
	attributed := make(map[string]string, len(records))
	for _, s := range segs {
		key := calendar.Key(s.Date)
		segsByDate[key] = append(segsByDate[key], s)
		for _, id := range s.RecordIDs {
			attributed[id] = key
		}
	}

	// Records attach to the day their hours were attributed to, so the
	// continuation half of a night shift does not declare presence on its own.
	recordsByDate := make(map[string][]timerecord.TimeRecord)
	for _, r := range records {
		key, ok := attributed[r.ID]
		if !ok {
			key = calendar.Key(r.Date)
		}
		recordsByDate[key] = append(recordsByDate[key], r)
	}
	for key := range recordsByDate {
		sortRecords(recordsByDate[key])
	}

	rolePolicy := a.policies.For(emp.Role)
	regime := worktime.RegimeOf(emp)

	totals := worktime.PeriodTotals{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		EmployeeCode:   emp.EmployeeCode,
		Regime:         regime,
		Start:          calendar.Civil(p.Start),
		End:            calendar.Civil(p.End),
		HoursWorked:    decimal.Zero,
		NormalHours:    decimal.Zero,
		OvertimeHours:  decimal.Zero,
		Premium25Hours: decimal.Zero,
		Premium50Hours: decimal.Zero,
		NightHours:     decimal.Zero,
	}

	holidays := p.Calendar
	if holidays == nil {
		holidays = calendar.New()
	}

	effectiveEnd := p.EffectiveEnd()
	calendar.Each(p.Start, p.End, func(d time.Time) {
		key := calendar.Key(d)
		dayRecords := recordsByDate[key]

		day := a.classifier.Classify(DayInput{
			Date:            d,
			DayType:         holidays.DayType(d),
			Regime:          regime,
			Policy:          rolePolicy,
			Hours:           a.daily.Compute(segsByDate[key]),
			DepartmentID:    dayDepartment(dayRecords, emp),
			DeclaredPresent: declaresPresence(dayRecords),
			Leave:           leaveOn(d, emp.ID, leaves),
		})

		totals.Add(day)
		if day.Present && !d.After(effectiveEnd) {
			totals.PresentDaysToDate++
		}
		if p.KeepDays {
			totals.Days = append(totals.Days, day)
		}
	})

	return totals, true
}

// Snapshot is an in-memory copy of everything one report needs.
type Snapshot struct {
	CompanyID string
	Period    Period
	Today     time.Time
	Employees []employee.Employee
	Records   []timerecord.TimeRecord
	Leaves    []leave.LeaveRequest
}

// Aggregate computes a whole report from a snapshot. Records of employees
// missing from the roster are ignored.
func (a *PeriodAggregator) Aggregate(s Snapshot) worktime.PeriodReport {
	byEmployee := make(map[string][]timerecord.TimeRecord)
	for _, r := range s.Records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	p := s.Period
	p.Today = s.Today

	roster := make(map[string]bool, len(s.Employees))
	var all []worktime.PeriodTotals
	for _, emp := range s.Employees {
		roster[emp.ID] = true
		if totals, ok := a.Employee(p, emp, byEmployee[emp.ID], s.Leaves); ok {
			all = append(all, totals)
		}
	}

	for id, records := range byEmployee {
		if !roster[id] {
			slog.Warn("time records skipped for employee missing from roster",
				"employee_id", id,
				"records", len(records),
			)
		}
	}

	return worktime.PeriodReport{
		CompanyID:    s.CompanyID,
		Start:        calendar.Civil(s.Period.Start),
		End:          calendar.Civil(s.Period.End),
		Employees:    all,
		Departments:  Departments(all),
		PresenceRate: PresenceRate(all, p),
	}
}

// PresenceRate is the average number of employees present per effective day.
// Effective days stop at p.Today; a period entirely in the future rates 0.
// totals must have been computed over p.
func PresenceRate(totals []worktime.PeriodTotals, p Period) decimal.Decimal {
	days := calendar.DaysInclusive(p.Start, p.EffectiveEnd())
	if days == 0 {
		return decimal.Zero
	}

	present := 0
	for _, t := range totals {
		present += t.PresentDaysToDate
	}

	return decimal.NewFromInt(int64(present)).DivRound(decimal.NewFromInt(int64(days)), 2)
}

// Departments folds the employees' department shares into one row per
// department, ordered by ID.
func Departments(totals []worktime.PeriodTotals) []worktime.DepartmentTotals {
	index := make(map[string]*worktime.DepartmentTotals)
	var order []string

	for _, t := range totals {
		for _, share := range t.Departments {
			dept, ok := index[share.DepartmentID]
			if !ok {
				d := worktime.NewDepartmentTotals(share.DepartmentID)
				dept = &d
				index[share.DepartmentID] = dept
				order = append(order, share.DepartmentID)
			}
			dept.Employees += share.Employees
			dept.DaysWorked += share.DaysWorked
			dept.DaysAbsent += share.DaysAbsent
			dept.HoursWorked = dept.HoursWorked.Add(share.HoursWorked)
			dept.NormalHours = dept.NormalHours.Add(share.NormalHours)
			dept.OvertimeHours = dept.OvertimeHours.Add(share.OvertimeHours)
			dept.Premium25Hours = dept.Premium25Hours.Add(share.Premium25Hours)
			dept.Premium50Hours = dept.Premium50Hours.Add(share.Premium50Hours)
		}
	}

	sort.Strings(order)
	out := make([]worktime.DepartmentTotals, 0, len(order))
	for _, id := range order {
		out = append(out, *index[id])
	}
	return out
}

func hasRecordIn(p Period, records []timerecord.TimeRecord) bool {
	for _, r := range records {
		if p.contains(r.Date) {
			return true
		}
	}
	return false
}

func declaresPresence(records []timerecord.TimeRecord) bool {
	for _, r := range records {
		if r.DayStatus.IsPresence() {
			return true
		}
	}
	return false
}

// dayDepartment takes the department stored on the day's first record and
// falls back to the employee's current department.
func dayDepartment(records []timerecord.TimeRecord, emp employee.Employee) *string {
	for _, r := range records {
		if r.DepartmentID != nil {
			return r.DepartmentID
		}
	}
	return emp.DepartmentID
}

// leaveOn returns the approved leave covering d. Sick leave wins when both
// kinds overlap.
func leaveOn(d time.Time, employeeID string, leaves []leave.LeaveRequest) worktime.LeaveKind {
	kind := worktime.LeaveKindNone
	for _, l := range leaves {
		if l.EmployeeID != employeeID || !l.ExcludesWork() || !l.Covers(d) {
			continue
		}
		if l.Type == leave.TypeSickLeave {
			return worktime.LeaveKindSick
		}
		kind = worktime.LeaveKindPaid
	}
	return kind
}

func sortRecords(records []timerecord.TimeRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return clockInOffset(records[i]) < clockInOffset(records[j])
	})
}

// clockInOffset orders records without a usable clock-in first.
func clockInOffset(r timerecord.TimeRecord) time.Duration {
	if r.ClockIn == nil {
		return -1
	}
	d, err := clock.ParseTimeOfDay(*r.ClockIn)
	if err != nil {
		return -1
	}
	return d
}
