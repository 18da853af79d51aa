package session

import (
	"time"
)

// UserRole is the user's access tier
type UserRole = string

const (
	// RoleUser is a regular citizen account (report, upvote, dashboard)
	RoleUser UserRole = "user"
	// RoleAdmin is a municipal staff account (admin routes, issue triage)
	RoleAdmin UserRole = "admin"
)

// Session is the authenticated identity held by the client after login.
type Session struct {
	Token         string     `json:"token"`
	UserID        string     `json:"user_id,omitempty"`
	Role          UserRole   `json:"role,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// Equal reports whether two sessions carry the same identity. Timestamps are
// compared by instant, not by location.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Token != other.Token ||
		s.UserID != other.UserID ||
		s.Role != other.Role ||
		s.EmailVerified != other.EmailVerified {
		return false
	}
	return timeEqual(s.IssuedAt, other.IssuedAt) && timeEqual(s.ExpiresAt, other.ExpiresAt)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// AuthState is the process-wide view of the current identity. Loading is true
// from startup until the identity stream delivers its first event.
type AuthState struct {
	User    *Session
	Loading bool
}

// VerifyResult is the outcome of a token verification round-trip.
type VerifyResult int

const (
	// VerifyInvalid covers non-2xx responses and transport failures alike.
	VerifyInvalid VerifyResult = iota
	VerifyValid
)

func (r VerifyResult) String() string {
	if r == VerifyValid {
		return "valid"
	}
	return "invalid"
}

// LoginRequest payload
type LoginRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       UserRole `json:"role"`
	RememberMe bool     `json:"rememberMe"`
	Department string   `json:"department,omitempty"`
	EmployeeID string   `json:"employeeId,omitempty"`
}

// LoginResult is the parsed backend response to a successful login.
type LoginResult struct {
	Token string `json:"token"`
}

// SignupRequest is the full registration payload.
type SignupRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	Role            UserRole `json:"role"`
	SSN             string   `json:"ssn,omitempty"`
	Department      string   `json:"department,omitempty"`
	EmployeeID      string   `json:"employeeId,omitempty"`
	Designation     string   `json:"designation,omitempty"`
	State           string   `json:"state,omitempty"`
	District        string   `json:"district,omitempty"`
	City            string   `json:"city,omitempty"`
	Ward            string   `json:"ward,omitempty"`
}
