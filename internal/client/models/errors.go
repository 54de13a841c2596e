package models

import (
	"errors"
	"fmt"
)

var (
	// Validation errors never reach the transport.
	ErrEmptyKeyword    = errors.New("keyword must not be empty")
	ErrMissingIdentity = errors.New("external search requires an authenticated auditor identity")

	// ErrSuperseded is returned to the caller of an invocation that was
	// replaced by a newer one before it completed.
	ErrSuperseded = errors.New("search superseded by a newer invocation")
)

// ErrorKind classifies a failed invocation.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindKeyFormat   ErrorKind = "key_format"
	KindTransport   ErrorKind = "transport"
	KindApplication ErrorKind = "application"
	KindUnknown     ErrorKind = "unknown"
)

// UnknownErrorCode is shown when the server's error envelope carries no code.
const UnknownErrorCode = "UNKNOWN_ERROR"

// QueryError is the failure of one search invocation.
type QueryError struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *QueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error (%s): %v", e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Retriable reports whether resubmitting the same query may succeed. Only
// transport failures qualify, and only on user request.
func (e *QueryError) Retriable() bool { return e.Kind == KindTransport }

// IsKind reports whether err is a QueryError of kind k.
func IsKind(err error, k ErrorKind) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == k
}
