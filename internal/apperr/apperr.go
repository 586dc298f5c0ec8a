// Package apperr defines the error taxonomy that every shellgate component
// uses to report failures: InvalidRequest, InvalidParams, MethodNotFound,
// and InternalError, matching the tool-call error codes in spec.md §7.
package apperr

import (
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Error codes for the gateway's tool-call surface.
const (
	CodeInvalidRequest goerrors.ErrorCode = "GATE1000"
	CodeInvalidParams  goerrors.ErrorCode = "GATE1001"
	CodeMethodNotFound goerrors.ErrorCode = "GATE1002"
	CodeInternal       goerrors.ErrorCode = "GATE1003"
)

// GatewayError wraps a go-errors.Error with the field/shell/operator context
// a caller needs to act on a rejection.
type GatewayError struct {
	goErr *goerrors.Error
}

func (e *GatewayError) Error() string {
	return e.goErr.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.goErr
}

// Code returns the taxonomy code for this error.
func (e *GatewayError) Code() goerrors.ErrorCode {
	return e.goErr.ErrorCode()
}

func newError(code goerrors.ErrorCode, message string) *GatewayError {
	return &GatewayError{goErr: goerrors.New(code, message).WithSeverity("warning")}
}

// InvalidRequest reports a policy or validation failure: a blocked
// command/argument/operator, a path outside the allowed set, or a command
// exceeding maxCommandLength.
func InvalidRequest(shellName, message string) *GatewayError {
	return newError(CodeInvalidRequest, message).WithContext("shell", shellName)
}

// InvalidParams reports a malformed or missing tool argument.
func InvalidParams(message string) *GatewayError {
	return newError(CodeInvalidParams, message)
}

// MethodNotFound reports an unrecognized tool name.
func MethodNotFound(tool string) *GatewayError {
	return newError(CodeMethodNotFound, fmt.Sprintf("unknown tool: %s", tool)).WithContext("tool", tool)
}

// InternalExecError reports a spawn failure or a timeout, carrying the
// shell name and the underlying OS-level detail.
func InternalExecError(shellName, message string) *GatewayError {
	e := goerrors.New(CodeInternal, message).WithSeverity("error").WithContext("shell", shellName)
	return &GatewayError{goErr: e}
}

// WithContext attaches a key/value pair to the underlying error for
// structured logging and chains back the *GatewayError for convenience.
func (e *GatewayError) WithContext(key string, value interface{}) *GatewayError {
	e.goErr.WithContext(key, value)
	return e
}

// IsInvalidRequest reports whether err carries the InvalidRequest code.
func IsInvalidRequest(err error) bool { return hasCode(err, CodeInvalidRequest) }

// IsInvalidParams reports whether err carries the InvalidParams code.
func IsInvalidParams(err error) bool { return hasCode(err, CodeInvalidParams) }

// IsMethodNotFound reports whether err carries the MethodNotFound code.
func IsMethodNotFound(err error) bool { return hasCode(err, CodeMethodNotFound) }

// IsInternal reports whether err carries the InternalError code.
func IsInternal(err error) bool { return hasCode(err, CodeInternal) }

func hasCode(err error, code goerrors.ErrorCode) bool {
	ge, ok := err.(*GatewayError)
	if !ok {
		return false
	}
	return ge.Code() == code
}
