package api

import (
	"net/http"
)

// StatusError is an error with an HTTP status code
type StatusError struct {
	StatusCode   int    `json:"-"`
	ErrorMessage string `json:"error"`
}

func (e *StatusError) Error() string { return e.ErrorMessage }

// ErrValidation creates a 400 error for invalid input: missing model,
// embedding-only model used for generation, unsupported file type,
// vision model invoked without an image.
func ErrValidation(msg string) *StatusError {
	return &StatusError{
		StatusCode:   http.StatusBadRequest,
		ErrorMessage: msg,
	}
}

// ErrProcessing creates a 400 error for a document that could not be
// read. The extractor's own error is logged at the call site but never
// relayed to the client verbatim.
func ErrProcessing(msg string) *StatusError {
	return &StatusError{
		StatusCode:   http.StatusBadRequest,
		ErrorMessage: msg,
	}
}

// ErrNotFound creates a 404 Not Found error
func ErrNotFound(msg string) *StatusError {
	return &StatusError{
		StatusCode:   http.StatusNotFound,
		ErrorMessage: msg,
	}
}

// ErrUpstream creates a 500 error for an unreachable or failing
// inference backend.
func ErrUpstream(msg string) *StatusError {
	return &StatusError{
		StatusCode:   http.StatusInternalServerError,
		ErrorMessage: msg,
	}
}
