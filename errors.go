package session

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeAuthFailed        = "session_auth_failed"
	TextCodeRegisterFailed    = "session_register_failed"
	TextCodeNetworkFailure    = "session_network_failure"
	TextCodeMalformedResponse = "session_malformed_response"
	TextCodeTokenInvalid      = "session_token_invalid"
)

// ErrAuthenticationFailed is returned when the backend rejects credentials.
var ErrAuthenticationFailed = errors.New("authentication failed", errors.CategoryAuth).
	WithTextCode(TextCodeAuthFailed).
	WithCode(errors.CodeUnauthorized)

// ErrRegistrationFailed is returned when the registration endpoint rejects the payload.
var ErrRegistrationFailed = errors.New("failed to register", errors.CategoryAuth).
	WithTextCode(TextCodeRegisterFailed).
	WithCode(errors.CodeBadRequest)

// ErrNetworkFailure is returned when a request could not complete.
var ErrNetworkFailure = errors.New("request could not complete", errors.CategoryOperation).
	WithTextCode(TextCodeNetworkFailure).
	WithCode(errors.CodeInternal)

// ErrMalformedResponse is returned for non-JSON or incomplete backend bodies.
// Callers treat it the same as a network failure.
var ErrMalformedResponse = errors.New("unexpected server response", errors.CategoryOperation).
	WithTextCode(TextCodeMalformedResponse).
	WithCode(errors.CodeInternal)

// ErrTokenInvalid is returned when the stored token fails verification.
var ErrTokenInvalid = errors.New("invalid session token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// IsAuthenticationError reports whether err should surface as a credentials
// banner rather than a retry affordance.
func IsAuthenticationError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// IsNetworkError reports whether err degrades to unauthenticated (verify) or
// a retry affordance (login/signup submission).
func IsNetworkError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryOperation
}

// IsTokenExpiredError matches the expired classification from
// DecodeSessionToken as well as raw jwt.ErrTokenExpired errors.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedTokenError matches the malformed classification from
// DecodeSessionToken as well as raw jwt parse errors.
func IsMalformedTokenError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
