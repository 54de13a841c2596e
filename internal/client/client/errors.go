package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrUnknown     = errors.New("unexpected server response")
)

// ApplicationError is a failure reported by the server in its error envelope.
type ApplicationError struct {
	Status  int
	Code    string
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error %s (HTTP %d)", e.Code, e.Status)
	}
	return fmt.Sprintf("server error %s (HTTP %d): %s", e.Code, e.Status, e.Message)
}
