package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Common
	ErrNotFound   = errors.New("record not found")
	ErrBadRequest = errors.New("bad request")

	// Request lifecycle
	ErrEquipmentScrapped     = errors.New("equipment is scrapped and cannot receive new requests")
	ErrInvalidStatus         = errors.New("unknown request status")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrHoursRequired         = errors.New("a positive hours_spent value is required to mark a request repaired")
	ErrScheduledDateRequired = errors.New("scheduled_date is required for preventive requests")
	ErrTechnicianNotInTeam   = errors.New("technician does not belong to the request's team")
)

// StatusCodes maps sentinel errors to HTTP status codes. Anything not listed
// here surfaces as an internal error in api.ErrorResponse.
var StatusCodes = map[error]int{
	ErrNotFound:              http.StatusNotFound,
	ErrBadRequest:            http.StatusBadRequest,
	ErrEquipmentScrapped:     http.StatusConflict,
	ErrInvalidStatus:         http.StatusBadRequest,
	ErrInvalidTransition:     http.StatusBadRequest,
	ErrHoursRequired:         http.StatusBadRequest,
	ErrScheduledDateRequired: http.StatusBadRequest,
	ErrTechnicianNotInTeam:   http.StatusBadRequest,
}

type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
