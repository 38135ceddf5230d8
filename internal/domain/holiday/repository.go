package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListActiveInRange returns active holidays with start <= date <= end.
	ListActiveInRange(ctx context.Context, companyID string, start, end time.Time) ([]Holiday, error)
}
