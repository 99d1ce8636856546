package usecase

import "errors"

const (
	CodeInvalidCSV   = "INVALID_CSV"
	CodeEmptyUpload  = "EMPTY_UPLOAD"
	CodeLeadNotFound = "LEAD_NOT_FOUND"
	CodeDatabase     = "DATABASE_ERROR"
)

// DomainError is caused by the caller's input; handlers map it to 4xx.
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

// TechnicalError is an infrastructure failure; handlers map it to 5xx.
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
