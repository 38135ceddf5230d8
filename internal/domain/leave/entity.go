package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestType string

const (
	TypePaidLeave       RequestType = "paid_leave"
	TypeSickLeave       RequestType = "sick_leave"
	TypeOther           RequestType = "other"
	TypeWorkCertificate RequestType = "work_certificate"
)

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusValidated RequestStatus = "validated"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// LeaveRequest entity. EndDate is nil only for work certificates; a nil end
// is treated as a single-day request.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Type       RequestType
	StartDate  time.Time
	EndDate    *time.Time
	Status     RequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r LeaveRequest) IsApproved() bool {
	return r.Status == StatusApproved
}

// LastDay returns the final day covered by the request.
func (r LeaveRequest) LastDay() time.Time {
	if r.EndDate == nil {
		return r.StartDate
	}
	return *r.EndDate
}

// Days returns the inclusive number of calendar days requested.
func (r LeaveRequest) Days() int {
	end := r.LastDay()
	if end.Before(r.StartDate) {
		return 0
	}
	return int(end.Sub(r.StartDate).Hours()/24) + 1
}

// Covers reports whether day falls inside [StartDate, LastDay].
func (r LeaveRequest) Covers(day time.Time) bool {
	return !day.Before(r.StartDate) && !day.After(r.LastDay())
}

// ExcludesWork reports whether the request replaces hour computation on the
// days it covers: only approved paid or sick leave does.
func (r LeaveRequest) ExcludesWork() bool {
	return r.IsApproved() && (r.Type == TypePaidLeave || r.Type == TypeSickLeave)
}

// CanIssueCertificate gates the leave certificate document.
func (r LeaveRequest) CanIssueCertificate() bool {
	return r.Type == TypePaidLeave && r.IsApproved()
}

type BalanceStatus string

const (
	BalanceOverrun   BalanceStatus = "overrun"
	BalanceExhausted BalanceStatus = "exhausted"
	BalanceLow       BalanceStatus = "low"
	BalanceNormal    BalanceStatus = "normal"
	BalanceHigh      BalanceStatus = "high"
)

// AccrualResult is the paid-leave position of one employee for one year.
type AccrualResult struct {
	EmployeeID         string
	Year               int
	MonthsWorked       int
	DaysAcquired       decimal.Decimal
	DaysConsumed       decimal.Decimal
	Balance            decimal.Decimal
	DisplayedRemaining decimal.Decimal
	Status             BalanceStatus
}
