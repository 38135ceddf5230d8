package employee

import (
	"fmt"
	"time"
)

type Employee struct {
	ID           string
	CompanyID    string
	FullName     string
	EmployeeCode string
	ContractType ContractType
	Role         string
	HireDate     *time.Time
	DepartmentID *string
	Status       Status
	ExitDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContractType selects the overtime regime applied to an employee.
type ContractType string

const (
	ContractTypePermanent ContractType = "permanent"
	ContractTypeTemporary ContractType = "temporary"
)

func ParseContractType(s string) (ContractType, error) {
	switch ContractType(s) {
	case ContractTypePermanent, ContractTypeTemporary:
		return ContractType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContractType, s)
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e Employee) IsTemporary() bool {
	return e.ContractType == ContractTypeTemporary
}
