package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// ListRoster returns every employee of the company regardless of status.
	// Inactive employees are filtered later, once their events are known.
	ListRoster(ctx context.Context, companyID string) ([]Employee, error)

	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
