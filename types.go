package session

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialStore persists a session across process restarts. Implementations
// must fail silently: an unavailable or corrupted backing store degrades to
// "no session", it never surfaces an error to the caller.
type CredentialStore interface {
	Save(ctx context.Context, session *Session)
	Load(ctx context.Context) *Session
	Clear(ctx context.Context)
}

// TokenVerifier checks a stored token against the backend.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) VerifyResult
}

// IdentityStream is an ordered stream of identity changes. A nil Session
// means signed out. Subscribe returns the delivery channel plus an
// unsubscribe handle; after unsubscribe the channel is closed and no further
// events are delivered.
type IdentityStream interface {
	Subscribe() (<-chan *Session, func())
}

// AuthClient talks to the backend auth endpoints.
type AuthClient interface {
	Login(ctx context.Context, payload LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, payload SignupRequest) error
	VerifyToken(ctx context.Context, token string) error
}

// Config holds client auth options
type Config interface {
	GetBaseURL() string
	GetLoginPath() string
	GetRegisterPath() string
	GetVerifyTokenPath() string
	GetIssuesPath() string
	GetLoginRoute() string
	GetUnauthorizedRoute() string
	GetVerifyEmailRoute() string
	GetDashboardPrefix() string
	GetStoreScope() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
