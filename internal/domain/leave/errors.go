package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrCertificateNotAllowed = errors.New("a certificate is only issued for approved paid leave")
)
