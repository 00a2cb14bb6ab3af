package exposure

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed error the exposure layer and the storage
// implementations exchange. Code is a stable machine-readable
// identifier, Status the HTTP status it maps to.
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation covers bad filter syntax, malformed pagination values
// and invalid request payloads.
func NewValidation(message string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Message: message, Status: http.StatusBadRequest}
}

// NewNotFound covers missing rows and unknown relationship names.
func NewNotFound(what string) *Error {
	return &Error{Code: "NOT_FOUND", Message: what + " not found", Status: http.StatusNotFound}
}

// NewReferential covers foreign keys pointing at rows that do not exist.
func NewReferential(message string) *Error {
	return &Error{Code: "REFERENTIAL_ERROR", Message: message, Status: http.StatusBadRequest}
}

// NewConflict covers duplicate primary keys and unique violations.
func NewConflict(message string) *Error {
	return &Error{Code: "CONFLICT", Message: message, Status: http.StatusConflict}
}

// NewInternal wraps an unexpected failure. The message stays generic;
// the wrapped error goes to the log, not the client.
func NewInternal(err error) *Error {
	return &Error{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError, Err: err}
}

// MapErrorToHTTP resolves any error to a status, code and
// client-safe message.
func MapErrorToHTTP(err error) (int, string, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, e.Code, e.Message
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
}
