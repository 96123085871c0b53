package api

import (
	"errors"
	"fmt"
	"net/http"

	"scheduler/internal/scheduler"
)

// AppError is an error with a client-facing code, message and HTTP status.
type AppError struct {
	Code    string
	Message string
	Status  int
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

// ErrBadRequest builds an AppError for invalid client input.
func ErrBadRequest(msg string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: msg,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// toAppError maps domain errors to their HTTP form.
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var reqErr *scheduler.RequestError
	if errors.As(err, &reqErr) {
		return &AppError{Code: "BAD_REQUEST", Message: reqErr.Message, Status: http.StatusBadRequest, Err: err}
	}

	if errors.Is(err, scheduler.ErrInvalidRange) {
		return &AppError{Code: "INVALID_RANGE", Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	}

	return &AppError{
		Code:    "INTERNAL",
		Message: "internal error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
