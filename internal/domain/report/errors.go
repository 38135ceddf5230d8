package report

import "errors"

var (
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrRangeTooLong     = errors.New("report range must not exceed 100 years")
)
