package timerecord

import "context"

// TimeRecordService is the capture/correction path for clock events.
// Every write goes through overnight reconciliation.
type TimeRecordService interface {
	// Capture stores a new record and splits it if it crosses midnight
	Capture(ctx context.Context, req CreateTimeRecordRequest) (CaptureResponse, error)

	// Correct updates clock times or status of an existing record
	Correct(ctx context.Context, req UpdateTimeRecordRequest) (CaptureResponse, error)

	// Validate marks a record as validated
	Validate(ctx context.Context, id string) (TimeRecordResponse, error)

	// DeleteBulk removes several records at once
	DeleteBulk(ctx context.Context, req BulkDeleteRequest) (int64, error)
}
