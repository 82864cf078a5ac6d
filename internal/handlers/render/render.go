package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nkiryanov/socialnet/internal/apperrors"
)

type logger interface {
	Error(msg string, args ...any)
}

// Success envelope
type Response struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

type StatusErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type EntityErrorResponse struct {
	Message string                          `json:"message"`
	Errors  map[string]apperrors.FieldError `json:"errors"`
}

type InternalErrorResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, data any) {
	jsonWithStatus(w, data, http.StatusOK)
}

// Render success envelope with message and optional result
func Result(w http.ResponseWriter, message string, result any) {
	JSON(w, Response{Message: message, Result: result})
}

// Render success envelope with message only
func Message(w http.ResponseWriter, message string) {
	JSON(w, Response{Message: message})
}

// Render error in the shape of its class:
//   - EntityError as field aggregate with 422 status
//   - StatusError as single message with its status
//   - anything else as internal error with the underlying message. It's logged too
func Error(w http.ResponseWriter, l logger, err error) {
	var entityErr *apperrors.EntityError
	if errors.As(err, &entityErr) {
		jsonWithStatus(w, EntityErrorResponse{Message: entityErr.Message, Errors: entityErr.Errors}, entityErr.Status)
		return
	}

	var statusErr *apperrors.StatusError
	if errors.As(err, &statusErr) {
		jsonWithStatus(w, StatusErrorResponse{Message: statusErr.Message, Status: statusErr.Status}, statusErr.Status)
		return
	}

	l.Error("Internal error", "error", err)
	jsonWithStatus(w, InternalErrorResponse{Message: err.Error()}, http.StatusInternalServerError)
}

// renderJSONWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
