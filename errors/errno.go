// Package errors defines the small error taxonomy shared across fat12lab:
// a handful of sentinel errors identified by message text, comparable with
// errors.Is, plus a DriverError interface for attaching context to one
// (WithMessage keeps the sentinel's identity; WrapError keeps the wrapped
// error's identity instead). This mirrors the shape of the
// teacher driver's errno shim, trimmed to the kinds spec'd for this project.
package errors

import "fmt"

// DiskoError is a sentinel error identified by its message text.
type DiskoError string

// The error kinds this project distinguishes at its boundaries.
const (
	ErrIOFailed           = DiskoError("input/output error")
	ErrFormatInvalid      = DiskoError("structure needs cleaning")
	ErrNotFound           = DiskoError("no such file or directory")
	ErrExists             = DiskoError("file exists")
	ErrNoSpaceOnDevice    = DiskoError("no space left on device")
	ErrInvalidArgument    = DiskoError("invalid argument")
	ErrArgumentOutOfRange = DiskoError("numerical argument out of domain")
	ErrDirectoryNotEmpty  = DiskoError("directory not empty")
)

func (e DiskoError) Error() string {
	return string(e)
}

func (e DiskoError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), message),
		originalError: e,
	}
}

func (e DiskoError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), err.Error()),
		originalError: err,
	}
}
