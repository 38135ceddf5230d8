package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	lr.id, lr.employee_id, e.company_id, lr.request_type, lr.start_date, lr.end_date,
	lr.status, lr.created_at, lr.updated_at
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		lr          leave.LeaveRequest
		requestType string
		status      string
	)
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.CompanyID, &requestType, &lr.StartDate, &lr.EndDate,
		&status, &lr.CreatedAt, &lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Type = leave.RequestType(requestType)
	lr.Status = leave.RequestStatus(status)
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1 AND e.company_id = $2
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedOverlapping(ctx context.Context, companyID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE e.company_id = $1
			AND lr.status = $2
			AND lr.start_date <= $4
			AND COALESCE(lr.end_date, lr.start_date) >= $3
		ORDER BY lr.employee_id, lr.start_date
	`
	return r.list(ctx, query, companyID, string(leave.StatusApproved), start, end)
}

// ListByEmployeeForYear implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployeeForYear(ctx context.Context, employeeID string, year int, companyID string) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE lr.employee_id = $1 AND e.company_id = $2
			AND EXTRACT(YEAR FROM lr.start_date) = $3
		ORDER BY lr.start_date
	`
	return r.list(ctx, query, employeeID, companyID, year)
}

// ListByCompanyForYear implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByCompanyForYear(ctx context.Context, companyID string, year int) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE e.company_id = $1 AND EXTRACT(YEAR FROM lr.start_date) = $2
		ORDER BY lr.employee_id, lr.start_date
	`
	return r.list(ctx, query, companyID, year)
}
