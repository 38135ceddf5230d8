package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/worktime"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/metrics"
	leavesvc "github.com/cmlabs-hris/hris-timesheet-go/internal/service/leave"
	worktimesvc "github.com/cmlabs-hris/hris-timesheet-go/internal/service/worktime"
)

type ReportServiceImpl struct {
	timerecord.TimeRecordRepository
	employee.EmployeeRepository
	holiday.HolidayRepository
	leaves     leave.LeaveRequestRepository
	aggregator *worktimesvc.PeriodAggregator
	accrual    *leavesvc.AccrualCalculator
	now        func() time.Time
}

func NewReportService(
	timeRecordRepository timerecord.TimeRecordRepository,
	employeeRepository employee.EmployeeRepository,
	holidayRepository holiday.HolidayRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	aggregator *worktimesvc.PeriodAggregator,
	accrual *leavesvc.AccrualCalculator,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		TimeRecordRepository: timeRecordRepository,
		EmployeeRepository:   employeeRepository,
		HolidayRepository:    holidayRepository,
		leaves:               leaveRequestRepository,
		aggregator:           aggregator,
		accrual:              accrual,
		now:                  now,
	}
}

// GeneratePeriodReport streams the company's records one employee at a time
// through the aggregator. Only one employee's records are held at once, and
// per-day rows are kept only when the request asks for them.
func (s *ReportServiceImpl) GeneratePeriodReport(ctx context.Context, req report.PeriodReportRequest) (report.PeriodReport, error) {
	defer metrics.ObserveReport("period", time.Now())

	if err := req.Validate(); err != nil {
		return report.PeriodReport{}, err
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return report.PeriodReport{}, err
	}

	start, end := req.Range()

	roster, err := s.EmployeeRepository.ListRoster(ctx, companyID)
	if err != nil {
		return report.PeriodReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	holidays, err := s.HolidayRepository.ListActiveInRange(ctx, companyID, start, end)
	if err != nil {
		return report.PeriodReport{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	now := s.now()
	period := worktimesvc.NewPeriod(start, end, holidays)
	period.Today = now
	period.KeepDays = req.IncludeDays

	leaves, err := s.leaves.ListApprovedOverlapping(ctx, companyID, start, end)
	if err != nil {
		return report.PeriodReport{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	byID := make(map[string]employee.Employee, len(roster))
	for _, emp := range roster {
		byID[emp.ID] = emp
	}

	computed := make(map[string]worktime.PeriodTotals, len(roster))
	seen := make(map[string]bool, len(roster))

	var (
		current string
		buffer  []timerecord.TimeRecord
	)
	flush := func() {
		if current == "" {
			return
		}
		seen[current] = true
		emp, ok := byID[current]
		if !ok {
			slog.Warn("time records skipped for employee missing from roster",
				"company_id", companyID,
				"employee_id", current,
				"records", len(buffer),
			)
			return
		}
		if totals, ok := s.aggregator.Employee(period, emp, buffer, leaves); ok {
			computed[emp.ID] = totals
		}
	}

	from, to := period.FetchRange()
	err = s.TimeRecordRepository.StreamByCompanyAndRange(ctx, companyID, from, to, func(r timerecord.TimeRecord) error {
		if r.EmployeeID != current {
			flush()
			current = r.EmployeeID
			buffer = nil
		}
		buffer = append(buffer, r)
		return nil
	})
	if err != nil {
		return report.PeriodReport{}, fmt.Errorf("failed to stream time records: %w", err)
	}
	flush()

	all := make([]worktime.PeriodTotals, 0, len(roster))
	for _, emp := range roster {
		if !seen[emp.ID] {
			if totals, ok := s.aggregator.Employee(period, emp, nil, leaves); ok {
				computed[emp.ID] = totals
			}
		}
		if totals, ok := computed[emp.ID]; ok {
			all = append(all, totals)
		}
	}

	result := worktime.PeriodReport{
		CompanyID:    companyID,
		Start:        period.Start,
		End:          period.End,
		Employees:    all,
		Departments:  worktimesvc.Departments(all),
		PresenceRate: worktimesvc.PresenceRate(all, period),
	}

	slog.Info("period report generated",
		"company_id", companyID,
		"start", calendar.Key(start),
		"end", calendar.Key(end),
		"employees", len(all),
	)

	return report.NewPeriodReport(result, req.IncludeDays, now), nil
}

// GenerateLeaveBalanceReport computes the paid-leave position of every active
// employee for the year.
func (s *ReportServiceImpl) GenerateLeaveBalanceReport(ctx context.Context, req report.LeaveBalanceReportRequest) (report.LeaveBalanceReport, error) {
	defer metrics.ObserveReport("leave_balance", time.Now())

	if err := req.Validate(); err != nil {
		return report.LeaveBalanceReport{}, err
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return report.LeaveBalanceReport{}, err
	}

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return report.LeaveBalanceReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	requests, err := s.leaves.ListByCompanyForYear(ctx, companyID, req.Year)
	if err != nil {
		return report.LeaveBalanceReport{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	byEmployee := make(map[string][]leave.LeaveRequest)
	for _, r := range requests {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	out := report.LeaveBalanceReport{
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Year:        req.Year,
		Rows:        make([]leave.BalanceResponse, 0, len(employees)),
	}
	for _, emp := range employees {
		row := leave.NewBalanceResponse(s.accrual.Calculate(emp, req.Year, byEmployee[emp.ID]))
		row.EmployeeName = emp.FullName
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}
