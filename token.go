package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenClaims mirrors the claims the backend issues with its bearer tokens.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID           string   `json:"uid,omitempty"`
	UserRole      UserRole `json:"role,omitempty"`
	EmailVerified bool     `json:"email_verified,omitempty"`
}

// DecodeSessionToken decodes the token payload without verifying the
// signature and seeds a Session from it. Signature verification is the
// backend's job (see HTTPVerifier); this only pre-populates role and
// verification hints so the guard has something to work with before the
// round-trip settles.
//
// The error reports why the claims cannot be trusted: a token that does not
// parse as a JWT still returns a usable session carrying the opaque token
// string, alongside an error IsMalformedTokenError matches; a token whose exp
// claim already passed returns the decoded session alongside an error
// IsTokenExpiredError matches.
func DecodeSessionToken(raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	session := &Session{Token: raw}

	claims := &TokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return session, goerrors.Wrap(err, goerrors.CategoryAuth, jwt.ErrTokenMalformed.Error()).
			WithTextCode(TextCodeTokenInvalid)
	}

	session.UserID = claims.UID
	if session.UserID == "" {
		session.UserID = claims.RegisteredClaims.Subject
	}

	if role, ok := ParseRole(claims.UserRole); ok {
		session.Role = role
	}
	session.EmailVerified = claims.EmailVerified

	if claims.RegisteredClaims.IssuedAt != nil {
		issuedAt := claims.RegisteredClaims.IssuedAt.Time
		session.IssuedAt = &issuedAt
	}

	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt := claims.RegisteredClaims.ExpiresAt.Time
		session.ExpiresAt = &expiresAt

		if expiresAt.Before(time.Now()) {
			return session, goerrors.Wrap(jwt.ErrTokenExpired, goerrors.CategoryAuth, jwt.ErrTokenExpired.Error()).
				WithTextCode(TextCodeTokenInvalid)
		}
	}

	return session, nil
}

// SessionFromToken is the lenient form of DecodeSessionToken: callers that
// only want the claim hints, and treat trust as the verifier's problem, get
// the session without the classification.
func SessionFromToken(raw string) *Session {
	session, _ := DecodeSessionToken(raw)
	return session
}
