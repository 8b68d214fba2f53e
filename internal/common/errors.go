// Package common defines shared constants and sentinel errors used across
// client and server layers of fintrack. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors. Validation failures are wrapped with the
	// offending field so the message can be shown to the caller.
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("user already exists")
	ErrorAuth         = errors.New("invalid credentials")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Optional features that are not configured.
	ErrFeatureDisabled = errors.New("feature disabled")
)

// Detail returns the text that was wrapped around sentinel, e.g. "name is
// required" for fmt.Errorf("%w: name is required", ErrorValidation). If err
// carries no extra text the sentinel's own message is returned.
func Detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok && rest != "" {
		return rest
	}
	return sentinel.Error()
}
