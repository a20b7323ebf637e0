package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotInList = errors.New("request not in list")
	ErrViewNotFound     = errors.New("view not found")
	ErrViewClosed       = errors.New("view closed")
)

// APIError is a non-2xx answer from the collection backend. Message carries the
// server-supplied "message" field when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}
