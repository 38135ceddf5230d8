package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate Period Report: hours, overtime buckets and presence per employee
	GeneratePeriodReport(ctx context.Context, req PeriodReportRequest) (PeriodReport, error)

	// Generate Leave Balance Report for every active employee
	GenerateLeaveBalanceReport(ctx context.Context, req LeaveBalanceReportRequest) (LeaveBalanceReport, error)
}
