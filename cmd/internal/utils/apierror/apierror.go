package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes: an HTTP status plus a
// JSON-serializable body.
type ErrorResponse interface {
	error
	Code() int
}

type simple struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (s *simple) Code() int     { return s.StatusCode }
func (s *simple) Error() string { return s.Message }

func NewSimple(code int, message string) ErrorResponse {
	return &simple{StatusCode: code, Message: message}
}

var (
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed request body")
	NotFoundError       = NewSimple(http.StatusNotFound, "Resource not found")

	PatientNotFoundError     = NewSimple(http.StatusNotFound, "Patient not found")
	TherapistNotFoundError   = NewSimple(http.StatusNotFound, "Therapist not found")
	AppointmentNotFoundError = NewSimple(http.StatusNotFound, "Appointment not found")
	SessionNotFoundError     = NewSimple(http.StatusNotFound, "Session not found")
	RecurrenceNotFoundError  = NewSimple(http.StatusNotFound, "Recurrence not found")
	TransactionNotFoundError = NewSimple(http.StatusNotFound, "Transaction not found")
	InviteNotFoundError      = NewSimple(http.StatusNotFound, "Invite not found")

	UserAlreadyExistsError   = NewSimple(http.StatusConflict, "A user with this email already exists")
	InviteNotPendingError    = NewSimple(http.StatusConflict, "Invite has already been used")
	InvalidInviteTokenError  = NewSimple(http.StatusUnauthorized, "Invite token is invalid or expired")
	NotRecurringError        = NewSimple(http.StatusBadRequest, "Appointment is not part of a recurrence")
	InvalidDateRangeError    = NewSimple(http.StatusBadRequest, "End date must be after the start date")
)

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", name))
}

func NewInvalidParamTypeError(name, expected string) ErrorResponse {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be a valid %s", name, expected))
}

// FromValidationError flattens a validator.Validate error into a 400 with
// one message per failing field.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	messages := make([]string, len(verrs))
	for i, ferr := range verrs {
		messages[i] = fmt.Sprintf("field '%s' failed on '%s'", ferr.Field(), ferr.Tag())
	}
	return NewSimple(http.StatusBadRequest, strings.Join(messages, "; "))
}
