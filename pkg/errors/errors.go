package errors

import (
	"errors"
	"fmt"
)

// Kind classifies where an error was raised.
type Kind string

const (
	// KindFormat marks errors raised while parsing a command line. No state is touched.
	KindFormat Kind = "format"
	// KindExecution marks errors raised while executing a parsed command against the store.
	KindExecution Kind = "execution"
	// KindStorage marks persistence failures of external collaborators.
	KindStorage Kind = "storage"
	// KindInternal marks unexpected failures.
	KindInternal Kind = "internal"
)

// Error represents a typed domain error carrying a user-facing message.
type Error struct {
	Code    string `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface. Only the message is returned so it can
// be shown to the user verbatim.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code. It lets errors.Is match a
// Clone of a predefined error against the original.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Detail returns the message followed by the wrapped cause, for logs.
func (e *Error) Detail() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// New creates a new Error instance.
func New(code string, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, kind Kind, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidFormat   = New("INVALID_FORMAT", KindFormat, "Invalid command format!")
	ErrUnknownCommand  = New("UNKNOWN_COMMAND", KindFormat, "Unknown command")
	ErrValidation      = New("VALIDATION_ERROR", KindFormat, "validation failed")
	ErrDuplicatePrefix = New("DUPLICATE_PREFIX", KindFormat, "Multiple values specified for the following single-valued field(s): ")
	ErrConflictParams  = New("CONFLICTING_PARAMETERS", KindFormat, "Conflicting parameters detected. Please use either index or student ID, not both.")
	ErrInvalidIndex    = New("INVALID_INDEX", KindExecution, "The student index provided is invalid.")
	ErrNotFound        = New("NOT_FOUND", KindExecution, "resource not found")
	ErrConflict        = New("CONFLICT", KindExecution, "conflict")
	ErrNotStudent      = New("NOT_STUDENT", KindExecution, "The person at the specified index is not a student. Grades can only be managed for students.")
	ErrStorage         = New("STORAGE_ERROR", KindStorage, "Could not save data to file")
	ErrCacheMiss       = New("CACHE_MISS", KindStorage, "cache miss")
	ErrInternal        = New("INTERNAL_ERROR", KindInternal, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Kind, err.Error())
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Clonef is Clone with a formatted message.
func Clonef(err *Error, format string, args ...interface{}) *Error {
	return Clone(err, fmt.Sprintf(format, args...))
}

// IsFormat reports whether err is a parse-time error.
func IsFormat(err error) bool {
	return kindOf(err) == KindFormat
}

// IsExecution reports whether err is an execute-time error.
func IsExecution(err error) bool {
	return kindOf(err) == KindExecution
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
