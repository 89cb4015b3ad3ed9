package output

import "errors"

// Process exit codes.
//
//	0 success
//	1 user error: bad arguments, malformed tree JSON or directories
//	2 system error: reading or writing files failed
//	3 conflict: the output directory already holds a tree
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitConflict    = 3
)

// ExitError carries an exit code to main.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an exit code 1 error.
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewSystemError creates an exit code 2 error.
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewConflictError creates an exit code 3 error.
func NewConflictError(message string) *ExitError {
	return &ExitError{Code: ExitConflict, Message: message}
}

// Wrap creates an error with the given code whose message is cause's
// message, keeping cause reachable through errors.As.
func Wrap(code int, cause error) *ExitError {
	return &ExitError{Code: code, Message: cause.Error(), Cause: cause}
}

// GetExitCode returns the code carried by err, ExitSuccess for nil and
// ExitUserError for errors without one.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
