package model

import "fmt"

// APIError is a server rejection: a response was received but carried a
// non-2xx status. Message is extracted from the response body's "detail"
// or "message" field, falling back to the HTTP status text.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// ErrorBody is the JSON shape backends use to explain a rejection.
// FastAPI-style backends use "detail"; others use "message".
type ErrorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Text returns the preferred human-readable message, empty if neither
// field was present.
func (b *ErrorBody) Text() string {
	if b.Detail != "" {
		return b.Detail
	}
	return b.Message
}
