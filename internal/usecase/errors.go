package usecase

import "errors"

const (
	CodeLeadNotFound        = "LEAD_NOT_FOUND"
	CodeNoConnectedSource   = "NO_CONNECTED_SOURCE"
	CodeNoDraft             = "NO_DRAFT"
	CodeInvalidStage        = "INVALID_STAGE"
	CodeOutreachUnavailable = "OUTREACH_UNAVAILABLE"
	CodePersistFailed       = "PERSIST_FAILED"
	CodeDispatchFailed      = "DISPATCH_FAILED"
)

// DomainError is a caller mistake the client can fix.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
