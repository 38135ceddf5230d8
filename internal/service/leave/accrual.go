package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

var (
	lowThreshold  = decimal.RequireFromString("0.2")
	highThreshold = decimal.RequireFromString("0.8")
)

// AccrualCalculator computes paid-leave balances from the role policy table.
type AccrualCalculator struct {
	policies *policy.Table
	now      func() time.Time
}

func NewAccrualCalculator(policies *policy.Table, now func() time.Time) *AccrualCalculator {
	if now == nil {
		now = time.Now
	}
	return &AccrualCalculator{policies: policies, now: now}
}

// Calculate returns the balance of emp for year. requests may contain any
// request of the employee; only approved paid leave starting in year counts.
func (c *AccrualCalculator) Calculate(emp employee.Employee, year int, requests []leave.LeaveRequest) leave.AccrualResult {
	p := c.policies.For(emp.Role)

	months := c.monthsWorked(emp, year, p)
	acquired := decimal.NewFromInt(int64(months)).Mul(p.MonthlyAccrual).Round(2)
	consumed := decimal.NewFromInt(int64(consumedDays(emp.ID, year, requests)))
	balance := acquired.Sub(consumed)

	return leave.AccrualResult{
		EmployeeID:         emp.ID,
		Year:               year,
		MonthsWorked:       months,
		DaysAcquired:       acquired,
		DaysConsumed:       consumed,
		Balance:            balance,
		DisplayedRemaining: decimal.Max(decimal.Zero, balance),
		Status:             StatusOf(balance, acquired),
	}
}

// monthsWorked counts from the later of hire date and year start, or from the
// hire date for policies accruing since hire, up to the earliest of today,
// year end and exit date.
func (c *AccrualCalculator) monthsWorked(emp employee.Employee, year int, p policy.RolePolicy) int {
	if emp.HireDate == nil {
		return 0
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	from := calendar.Civil(*emp.HireDate)
	if !p.AccrueSinceHire && from.Before(yearStart) {
		from = yearStart
	}

	to := calendar.Civil(c.now())
	if yearEnd.Before(to) {
		to = yearEnd
	}
	if emp.ExitDate != nil && calendar.Civil(*emp.ExitDate).Before(to) {
		to = calendar.Civil(*emp.ExitDate)
	}

	return MonthsBetween(from, to)
}

// MonthsBetween counts the months from one day to another, both days
// included, rounding a partial month up. It returns 0 when to is before from.
func MonthsBetween(from, to time.Time) int {
	from, to = calendar.Civil(from), calendar.Civil(to)
	if to.Before(from) {
		return 0
	}

	end := to.AddDate(0, 0, 1)
	months := (end.Year()-from.Year())*12 + int(end.Month()) - int(from.Month())
	if end.Day() > from.Day() {
		months++
	}
	return months
}

func consumedDays(employeeID string, year int, requests []leave.LeaveRequest) int {
	days := 0
	for _, r := range requests {
		if r.EmployeeID != employeeID || r.Type != leave.TypePaidLeave || !r.IsApproved() {
			continue
		}
		if r.StartDate.Year() != year {
			continue
		}
		days += r.Days()
	}
	return days
}

// StatusOf grades a balance against the employee's own acquired days.
func StatusOf(balance, acquired decimal.Decimal) leave.BalanceStatus {
	switch {
	case balance.IsNegative():
		return leave.BalanceOverrun
	case balance.IsZero():
		return leave.BalanceExhausted
	case balance.LessThan(acquired.Mul(lowThreshold)):
		return leave.BalanceLow
	case balance.GreaterThanOrEqual(acquired.Mul(highThreshold)):
		return leave.BalanceHigh
	}
	return leave.BalanceNormal
}
