package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/civicfix/go-session"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestSessionFromTokenReadsClaims(t *testing.T) {
	issued := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)

	raw := signTestToken(t, jwt.MapClaims{
		"uid":            "user-42",
		"role":           "admin",
		"email_verified": true,
		"iat":            issued.Unix(),
		"exp":            expires.Unix(),
	})

	got := session.SessionFromToken(raw)
	require.NotNil(t, got)
	assert.Equal(t, raw, got.Token)
	assert.Equal(t, "user-42", got.UserID)
	assert.Equal(t, session.RoleAdmin, got.Role)
	assert.True(t, got.EmailVerified)
	require.NotNil(t, got.IssuedAt)
	assert.True(t, issued.Equal(*got.IssuedAt))
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expires.Equal(*got.ExpiresAt))
}

func TestSessionFromTokenFallsBackToSubject(t *testing.T) {
	raw := signTestToken(t, jwt.MapClaims{
		"sub":  "subject-7",
		"role": "user",
	})

	got := session.SessionFromToken(raw)
	require.NotNil(t, got)
	assert.Equal(t, "subject-7", got.UserID)
	assert.Equal(t, session.RoleUser, got.Role)
	assert.False(t, got.EmailVerified)
}

func TestSessionFromTokenIgnoresUnknownRole(t *testing.T) {
	raw := signTestToken(t, jwt.MapClaims{"role": "superuser"})

	got := session.SessionFromToken(raw)
	require.NotNil(t, got)
	assert.Empty(t, got.Role)
}

func TestSessionFromTokenOpaqueToken(t *testing.T) {
	got := session.SessionFromToken("not-a-jwt")
	require.NotNil(t, got)
	assert.Equal(t, "not-a-jwt", got.Token)
	assert.Empty(t, got.UserID)
	assert.Empty(t, got.Role)
}

func TestSessionFromTokenEmpty(t *testing.T) {
	assert.Nil(t, session.SessionFromToken(""))
}

func TestDecodeSessionTokenAcceptsLiveToken(t *testing.T) {
	raw := signTestToken(t, jwt.MapClaims{
		"uid":  "user-42",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	got, err := session.DecodeSessionToken(raw)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-42", got.UserID)
}

func TestDecodeSessionTokenClassifiesExpired(t *testing.T) {
	raw := signTestToken(t, jwt.MapClaims{
		"uid": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	got, err := session.DecodeSessionToken(raw)
	require.Error(t, err)
	assert.True(t, session.IsTokenExpiredError(err))
	assert.False(t, session.IsMalformedTokenError(err))

	// The claims still decode so callers can show who expired.
	require.NotNil(t, got)
	assert.Equal(t, "user-42", got.UserID)
	require.NotNil(t, got.ExpiresAt)
}

func TestDecodeSessionTokenClassifiesOpaque(t *testing.T) {
	got, err := session.DecodeSessionToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, session.IsMalformedTokenError(err))
	assert.False(t, session.IsTokenExpiredError(err))

	require.NotNil(t, got)
	assert.Equal(t, "not-a-jwt", got.Token)
}

func TestDecodeSessionTokenEmpty(t *testing.T) {
	got, err := session.DecodeSessionToken("")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, session.IsAuthenticationError(err))
}

func TestTokenErrorHelpersIgnoreNilAndUnrelated(t *testing.T) {
	assert.False(t, session.IsTokenExpiredError(nil))
	assert.False(t, session.IsMalformedTokenError(nil))
	assert.False(t, session.IsTokenExpiredError(assert.AnError))
	assert.False(t, session.IsMalformedTokenError(assert.AnError))
}
