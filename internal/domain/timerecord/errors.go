package timerecord

import "errors"

var (
	ErrTimeRecordNotFound   = errors.New("time record not found")
	ErrAlreadyValidated     = errors.New("time record has already been validated")
	ErrIncompleteValidation = errors.New("a present or late record needs both clock times before validation")
	ErrNoRecordsDeleted     = errors.New("no time records matched for deletion")
)
