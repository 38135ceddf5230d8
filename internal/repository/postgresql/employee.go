package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeSelect = `
	SELECT e.id, e.company_id, e.full_name, e.employee_code, e.employment_type,
		COALESCE(p.name, ''), e.hire_date, e.department_id, e.employment_status,
		e.resignation_date, e.created_at, e.updated_at
	FROM employees e
	LEFT JOIN positions p ON p.id = e.position_id
`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp          employee.Employee
		contractType string
		status       string
	)
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.EmployeeCode, &contractType,
		&emp.Role, &emp.HireDate, &emp.DepartmentID, &status,
		&emp.ExitDate, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	emp.Status = employee.Status(status)
	emp.ContractType, err = employee.ParseContractType(contractType)
	if err != nil {
		slog.Warn("employee has unknown contract type, using permanent regime",
			"employee_id", emp.ID,
			"error", err,
		)
		emp.ContractType = employee.ContractTypePermanent
	}
	return emp, nil
}

func (e *employeeRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := employeeSelect + `
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// ListRoster implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListRoster(ctx context.Context, companyID string) ([]employee.Employee, error) {
	query := employeeSelect + `
		WHERE e.company_id = $1 AND e.deleted_at IS NULL
		ORDER BY e.id
	`
	return e.list(ctx, query, companyID)
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	query := employeeSelect + `
		WHERE e.company_id = $1 AND e.employment_status = $2 AND e.deleted_at IS NULL
		ORDER BY e.full_name, e.id
	`
	return e.list(ctx, query, companyID, string(employee.StatusActive))
}
