package auth

import (
	"errors"
	"fmt"
)

type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonInvalid   Reason = "invalid"
	ReasonExpired   Reason = "expired"
	ReasonForbidden Reason = "forbidden"
)

type AuthError struct {
	Reason Reason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth %s: %v", e.Reason, e.Err)
	}
	return "auth " + string(e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message is the text shown to clients; it never includes parser detail.
func (e *AuthError) Message() string {
	switch e.Reason {
	case ReasonMissing:
		return "Access denied. No token provided."
	case ReasonExpired:
		return "Token expired. Please log in again."
	case ReasonForbidden:
		return "Access denied. Insufficient permissions."
	default:
		return "Invalid token."
	}
}

func ReasonOf(err error) (Reason, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}
	return "", false
}
