package timerecord

import (
	"context"
	"time"
)

// TimeRecordRepository defines data access for time_records.
// All methods include companyID to keep companies isolated.
type TimeRecordRepository interface {
	Create(ctx context.Context, record TimeRecord) (TimeRecord, error)
	Update(ctx context.Context, record TimeRecord) error
	GetByID(ctx context.Context, id string, companyID string) (TimeRecord, error)
	DeleteBulk(ctx context.Context, ids []string, companyID string) (int64, error)

	// ListByEmployeeAndRange returns records with start <= date <= end.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time, companyID string) ([]TimeRecord, error)

	// StreamByCompanyAndRange calls fn for each record with start <= date <= end,
	// ordered by employee, date and clock-in. Iteration stops at the first error.
	StreamByCompanyAndRange(ctx context.Context, companyID string, start, end time.Time, fn func(TimeRecord) error) error

	// ListUnsplitOvernight returns present/late records whose clock-out is not
	// after their clock-in and that were never closed at end of day.
	ListUnsplitOvernight(ctx context.Context, limit int) ([]TimeRecord, error)
}

// Transactor runs fn inside one database transaction. Repositories called with
// the ctx handed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
