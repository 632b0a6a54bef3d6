package utils

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// AppError carries the HTTP status and client-facing message of a failed operation.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func BadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: "BadRequest", Message: message}
}

// ValidationError reports field level input problems.
func ValidationError(fields map[string]string) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: "ValidationFailed", Message: "Validation failed", Fields: fields}
}

func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: "NotFound", Message: message, Err: ErrNotFound}
}

func Conflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: "Conflict", Message: message, Err: ErrConflict}
}

func InsufficientStock(product string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: "InsufficientStock", Message: "Insufficient stock for " + product, Err: ErrInsufficientStock}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Status:  http.StatusConflict,
		Code:    "InvalidTransition",
		Message: fmt.Sprintf("Cannot change status from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

// Internal wraps an unexpected failure and records the stack for non-production responses.
func Internal(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Status: http.StatusInternalServerError, Code: "InternalError", Message: "Internal server error", Err: pkgerrors.WithStack(err)}
}

// AsAppError converts any error into an AppError.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
