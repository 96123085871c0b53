package scheduler

import "errors"

// ErrInvalidRange is returned when a search window cannot produce slots:
// the start hour is after the end hour, the start date is after the end date,
// or the duration is less than one minute.
var ErrInvalidRange = errors.New("invalid range")

// RequestError describes a malformed meeting request coming from a user-facing shell.
type RequestError struct {
	Field   string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
