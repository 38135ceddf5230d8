package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	calculator *AccrualCalculator
}

func NewLeaveService(
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	calculator *AccrualCalculator,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		calculator:             calculator,
	}
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, req leave.BalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	requests, err := s.LeaveRequestRepository.ListByEmployeeForYear(ctx, emp.ID, req.Year, companyID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.NewBalanceResponse(s.calculator.Calculate(emp, req.Year, requests))
	resp.EmployeeName = emp.FullName
	return resp, nil
}

// CertificateEligibility implements leave.LeaveService.
func (s *LeaveServiceImpl) CertificateEligibility(ctx context.Context, requestID string) (leave.CertificateEligibilityResponse, error) {
	if !validator.IsValidUUID(requestID) {
		return leave.CertificateEligibilityResponse{}, validator.ValidationErrors{
			{Field: "id", Message: "id must be a valid UUID"},
		}
	}

	companyID, err := jwt.CompanyID(ctx)
	if err != nil {
		return leave.CertificateEligibilityResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.CertificateEligibilityResponse{}, err
		}
		return leave.CertificateEligibilityResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	resp := leave.CertificateEligibilityResponse{
		RequestID:  request.ID,
		EmployeeID: request.EmployeeID,
		Type:       string(request.Type),
		Status:     string(request.Status),
		StartDate:  calendar.Key(request.StartDate),
		EndDate:    calendar.Key(request.LastDay()),
		Days:       request.Days(),
		Eligible:   request.CanIssueCertificate(),
	}
	if !resp.Eligible {
		return resp, leave.ErrCertificateNotAllowed
	}
	return resp, nil
}
