package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository reads leave_requests. Leave workflow writes live in
// the request-management service, not here.
type LeaveRequestRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	// ListApprovedOverlapping returns approved requests of any type that
	// overlap [start, end] for every employee of the company.
	ListApprovedOverlapping(ctx context.Context, companyID string, start, end time.Time) ([]LeaveRequest, error)

	// ListByEmployeeForYear returns requests whose start date falls in year.
	ListByEmployeeForYear(ctx context.Context, employeeID string, year int, companyID string) ([]LeaveRequest, error)

	// ListByCompanyForYear is ListByEmployeeForYear for every employee.
	ListByCompanyForYear(ctx context.Context, companyID string, year int) ([]LeaveRequest, error)
}
