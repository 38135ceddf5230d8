package leave

import "context"

type LeaveService interface {
	// GetBalance computes the paid-leave balance of one employee for a year
	GetBalance(ctx context.Context, req BalanceRequest) (BalanceResponse, error)

	// CertificateEligibility tells whether a leave certificate may be issued
	CertificateEligibility(ctx context.Context, requestID string) (CertificateEligibilityResponse, error)
}
