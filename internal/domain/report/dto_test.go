package report

import (
	"testing"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodReportRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       PeriodReportRequest
		wantField string
	}{
		{name: "single day", req: PeriodReportRequest{StartDate: "2025-06-10", EndDate: "2025-06-10"}},
		{name: "leap year", req: PeriodReportRequest{StartDate: "2024-01-01", EndDate: "2024-12-31"}},
		{name: "missing start", req: PeriodReportRequest{EndDate: "2025-06-10"}, wantField: "start_date"},
		{name: "bad end", req: PeriodReportRequest{StartDate: "2025-06-10", EndDate: "10/06/2025"}, wantField: "end_date"},
		{name: "reversed", req: PeriodReportRequest{StartDate: "2025-06-10", EndDate: "2025-06-09"}, wantField: "end_date"},
		{name: "multi-year totals", req: PeriodReportRequest{StartDate: "2015-01-01", EndDate: "2025-12-31"}},
		{name: "multi-year detail", req: PeriodReportRequest{StartDate: "2024-01-01", EndDate: "2025-01-01", IncludeDays: true}, wantField: "include_days"},
		{name: "too long", req: PeriodReportRequest{StartDate: "1900-01-01", EndDate: "2025-01-01"}, wantField: "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestLeaveBalanceReportRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LeaveBalanceReportRequest{Year: 2025}).Validate())
	assert.Error(t, (&LeaveBalanceReportRequest{}).Validate())
}
