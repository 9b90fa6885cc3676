package fserr

// DriverError is an error that can be annotated with additional context while
// still satisfying errors.Is against the sentinel it was derived from.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
}

type customDriverError struct {
	message       string
	originalError error
}

func (e customDriverError) Error() string {
	return e.message
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       message + ": " + e.message,
		originalError: e,
	}
}

func (e customDriverError) WrapError(err error) DriverError {
	return customDriverError{
		message:       e.Error() + ": " + err.Error(),
		originalError: err,
	}
}

func (e customDriverError) Unwrap() error {
	return e.originalError
}
