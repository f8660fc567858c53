package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type returned by every MedMinder component. Code
// identifies the failure class; Message is safe to show to the user.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so callers can compare
// against the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

const (
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION"
	CodeUnsupportedEnv = "UNSUPPORTED_ENV"
	CodeStale          = "STALE"
	CodeStorage        = "STORAGE"
	CodeUnauthorized   = "UNAUTHORIZED"
)

var (
	ErrNotFound       = &AppError{Code: CodeNotFound, Message: "resource not found"}
	ErrValidation     = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrUnsupportedEnv = &AppError{Code: CodeUnsupportedEnv, Message: "notifications are not supported"}
	ErrStale          = &AppError{Code: CodeStale, Message: "result discarded after navigation"}
	ErrStorage        = &AppError{Code: CodeStorage, Message: "storage failure"}
	ErrUnauthorized   = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
)

// NotFound builds a NotFound error naming the missing entity.
func NotFound(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", entity), Cause: fmt.Errorf("id %q", id)}
}

// Validation builds a ValidationFailure carrying a user-visible message.
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// UserMessage returns the AppError message, or fallback for foreign errors.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
