package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	session "github.com/civicfix/go-session"
)

// MockAuthClient implements session.AuthClient
type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Login(ctx context.Context, payload session.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.LoginResult), args.Error(1)
}

func (m *MockAuthClient) Register(ctx context.Context, payload session.SignupRequest) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockAuthClient) VerifyToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockVerifier implements session.TokenVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) session.VerifyResult {
	args := m.Called(ctx, token)
	return args.Get(0).(session.VerifyResult)
}

// MockCredentialStore implements session.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Save(ctx context.Context, s *session.Session) {
	m.Called(ctx, s)
}

func (m *MockCredentialStore) Load(ctx context.Context) *session.Session {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*session.Session)
}

func (m *MockCredentialStore) Clear(ctx context.Context) {
	m.Called(ctx)
}
