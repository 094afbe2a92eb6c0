package errors

import (
	"errors"
	"fmt"
	"net/http"

	"tabprep/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    classify(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code, mapping bare domain errors to their
// canonical codes and anything else to "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if code := classify(err); code != CodeInternalError {
		return code
	}
	return "UNKNOWN"
}

// classify maps domain sentinel errors onto application error codes so
// that transport layers never need to import the domain package.
func classify(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDataset):
		return CodeEmptyDataset
	case errors.Is(err, core.ErrInvalidOption):
		return CodeInvalidOption
	case errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrSnapshotNotFound),
		errors.Is(err, core.ErrColumnNotFound):
		return CodeNotFound
	case errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrNoHeader):
		return CodeIngestError
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeEmptyDataset    = "EMPTY_DATASET"
	CodeInvalidOption   = "INVALID_OPTION"
	CodeIngestError     = "INGEST_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
)

// HTTPStatus maps an error to the status the transport layers should
// answer with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeEmptyDataset, CodeInvalidOption, CodeInvalidInput, CodeValidationError, CodeIngestError:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
