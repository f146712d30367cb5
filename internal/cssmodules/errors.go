package cssmodules

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an internal invariant failure.
type ErrorCode string

const (
	// ErrUndeclaredLocalClass indicates composes targeted a class that was not declared first.
	ErrUndeclaredLocalClass ErrorCode = "undeclared-local-class"
	// ErrMissingLocalIdentName indicates local scoping was requested without a naming template.
	ErrMissingLocalIdentName ErrorCode = "missing-local-ident-name"
	// ErrMissingConvention indicates local scoping was requested without an exports convention.
	ErrMissingConvention ErrorCode = "missing-exports-convention"
	// ErrMissingDependencyModule indicates a compose dependency has no resolved module.
	ErrMissingDependencyModule ErrorCode = "missing-dependency-module"
	// ErrMissingModuleID indicates a referenced module has no assigned id.
	ErrMissingModuleID ErrorCode = "missing-module-id"
	// ErrUnsupportedSourceType indicates generation was requested for an unsupported output kind.
	ErrUnsupportedSourceType ErrorCode = "unsupported-source-type"
)

// InternalError is a bug in the surrounding pipeline or its configuration.
// It is never a user diagnostic and must not be recovered from.
type InternalError struct {
	Code    ErrorCode
	Message string
}

// Error formats the failure with its code.
func (e *InternalError) Error() string {
	if e == nil {
		return "internal error <nil>"
	}
	return fmt.Sprintf("internal error [%s]: %s", e.Code, e.Message)
}

func internalf(code ErrorCode, format string, args ...any) *InternalError {
	return &InternalError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsInternal reports whether err wraps an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// InternalCode returns the code of the InternalError wrapped by err.
func InternalCode(err error) (ErrorCode, bool) {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Code, true
	}
	return "", false
}
