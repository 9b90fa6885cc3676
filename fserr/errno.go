// Package fserr provides a small set of errno-flavored error values used
// throughout the checker, plus a DriverError wrapper that lets a low-level
// error be annotated with a human-readable message without losing the
// ability to test against the original sentinel with errors.Is.
package fserr

import "fmt"

// CheckerError is a sentinel error type: a bare string constant that
// satisfies `error` and can be compared with errors.Is, or wrapped with
// extra context via WithMessage/WrapError.
type CheckerError string

const ErrArgumentOutOfRange = CheckerError("numerical argument out of domain")
const ErrBadClusterMask = CheckerError("unrecognized cluster width mask")
const ErrInvalidCluster = CheckerError("cluster index out of range")
const ErrIOFailed = CheckerError("input/output error")
const ErrNoSpace = CheckerError("no space left on device")
const ErrNotFound = CheckerError("no such file or directory")
const ErrReadOnly = CheckerError("read-only file system (NO WRITE)")
const ErrCorrupted = CheckerError("file system structure needs cleaning")
const ErrInvalidArgument = CheckerError("invalid argument")

func (e CheckerError) Error() string {
	return string(e)
}

func (e CheckerError) WithMessage(message string) DriverError {
	return customDriverError{message: message + ": " + e.Error(), originalError: e}
}

func (e CheckerError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}
