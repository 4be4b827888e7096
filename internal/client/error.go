package client

import (
	"fmt"
	"net/http"
)

// NetworkError is returned when the backend cannot be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach the server: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a non-2xx response of the backend. Message is the
// message of the response body and is meant to be shown to the user as is.
type ValidationError struct {
	Status  int
	Code    int64
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// UnauthorizedError is returned when the backend rejects the access token, or
// when there is no token at all. The session is invalidated.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}
