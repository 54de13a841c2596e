// Package common defines shared constants and helpers used across the
// SecureMatch client packages.
package common

import "errors"

var (
	// ErrorInternal marks failures that are bugs rather than user or server errors.
	ErrorInternal = errors.New("internal error")
	// ErrorUnauthorized marks operations the current role may not perform.
	ErrorUnauthorized = errors.New("unauthorized")
)
