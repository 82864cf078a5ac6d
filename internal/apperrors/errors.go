package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	ErrFollowerNotFound = errors.New("follower relation not found")
	ErrAlreadyFollowing = errors.New("follower relation already exists")
)

const ValidationErrorMessage = "Validation error"

// StatusError is a failure that already knows how it has to be shown to the client:
// single message with explicit HTTP status (unauthorized, not found, conflict and so on)
type StatusError struct {
	Status  int
	Message string

	// Optional cause, kept for logs and errors.Is checks
	Err error
}

func NewStatus(status int, message string) *StatusError {
	return &StatusError{Status: status, Message: message}
}

func WrapStatus(status int, message string, err error) *StatusError {
	return &StatusError{Status: status, Message: message, Err: err}
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// FieldError describes why a single request field is rejected
type FieldError struct {
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// EntityError aggregates structural validation failures keyed by field name.
// Always has 422 status
type EntityError struct {
	StatusError
	Errors map[string]FieldError
}

func NewEntity(errs map[string]FieldError) *EntityError {
	return &EntityError{
		StatusError: StatusError{Status: http.StatusUnprocessableEntity, Message: ValidationErrorMessage},
		Errors:      errs,
	}
}

func (e *EntityError) Error() string {
	fields := ""
	for name := range e.Errors {
		if fields != "" {
			fields += ", "
		}
		fields += name
	}
	return e.Message + " (" + fields + ")"
}
