package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrUnknownContractType = errors.New("contract type must be permanent or temporary")
)
